package ledger

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const parquetSchemaVersion = "ledger_entry_v1"

// WriteParquet writes entries as a zstd-compressed Parquet file.
func WriteParquet(w io.Writer, entries []Entry) error {
	pw := parquet.NewGenericWriter[Entry](
		w,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", parquetSchemaVersion),
	)

	if len(entries) > 0 {
		if _, err := pw.Write(entries); err != nil {
			_ = pw.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet reads every entry from a file written by WriteParquet.
func ReadParquet(r io.ReaderAt, size int64) ([]Entry, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Entry](pf)
	defer reader.Close()

	entries := make([]Entry, 0, reader.NumRows())
	buf := make([]Entry, 128)
	for {
		n, err := reader.Read(buf)
		entries = append(entries, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
	return entries, nil
}
