package storage

import (
	"errors"
	"testing"
)

func TestRunCodecRejectsVersionMismatch(t *testing.T) {
	run := sampleRun("r1", "s1", 0.5)
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestRunCodecPreservesFields(t *testing.T) {
	run := sampleRun("r1", "s1", 0.5)
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != run.ID || got.Params != run.Params || !got.CreatedAt.Equal(run.CreatedAt) || got.Heatmap[2] != 5 {
		t.Fatalf("decoded run differs: %+v", got)
	}
}
