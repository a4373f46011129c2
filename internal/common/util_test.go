package common

import (
	"encoding/base64"
	"testing"
)

func TestMakeRandBase64String_DecodesToSize(t *testing.T) {
	const n = 128
	s, err := MakeRandBase64String(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("string is not valid base64: %v", err)
	}
	if len(raw) != n {
		t.Fatalf("expected %d decoded bytes, got %d", n, len(raw))
	}
}

func TestRandomBytes_EntropyHint(t *testing.T) {
	const n = 32
	a, err := RandomBytes(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := RandomBytes(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != n || len(b) != n {
		t.Fatalf("unexpected lengths: %d, %d", len(a), len(b))
	}
	if string(a) == string(b) {
		t.Logf("warning: two RandomBytes(%d) results are identical; extremely unlikely", n)
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}
