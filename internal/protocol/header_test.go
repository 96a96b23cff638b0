package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Header
		wantErr bool
	}{
		{
			name: "tagged broadcast GetService",
			// size=36, flags=0x3400 (tagged|addressable|1024), source=0xCAFE,
			// target zero, res_required=1, sequence=7, type=2
			data: []byte{
				0x24, 0x00, 0x00, 0x34, 0xFE, 0xCA, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x07,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x02, 0x00, 0x00, 0x00,
			},
			want: Header{
				Size:        36,
				Tagged:      true,
				Source:      0xCAFE,
				ResRequired: true,
				Sequence:    7,
				Type:        2,
			},
		},
		{
			name: "targeted GetLabel with ack",
			// flags=0x1400 (addressable|1024), target d073d5000001
			data: []byte{
				0x24, 0x00, 0x00, 0x14, 0x39, 0x30, 0x00, 0x00,
				0xD0, 0x73, 0xD5, 0x00, 0x00, 0x01, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x2A,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x17, 0x00, 0x00, 0x00,
			},
			want: Header{
				Size:        36,
				Source:      0x3039,
				Target:      [8]byte{0xD0, 0x73, 0xD5, 0x00, 0x00, 0x01},
				AckRequired: true,
				Sequence:    42,
				Type:        23,
			},
		},
		{
			name:    "too short",
			data:    []byte{0x24, 0x00, 0x00},
			wantErr: true,
		},
		{
			name: "wrong protocol number",
			data: func() []byte {
				b := make([]byte, HeaderSize)
				b[0] = 0x24
				b[3] = 0x18 // protocol 2048, addressable
				return b
			}(),
			wantErr: true,
		},
		{
			name:    "empty",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeader(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHeader() expected error, got nil")
				}
				if !errors.Is(err, ErrMalformedHeader) {
					t.Errorf("ParseHeader() error = %v, want ErrMalformedHeader", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseHeader() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{
			name: "broadcast",
			h:    Header{Size: 36, Tagged: true, Source: 0xCAFE, ResRequired: true, Sequence: 7, Type: 2},
		},
		{
			name: "targeted with ack",
			h: Header{
				Size:        41,
				Source:      99999,
				Target:      [8]byte{0xD0, 0x73, 0xD5, 0xFF, 0x00, 0x70},
				AckRequired: true,
				ResRequired: true,
				Sequence:    255,
				Type:        102,
			},
		},
		{
			name: "zero values",
			h:    Header{Size: 36},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.h.Encode()
			if len(encoded) != HeaderSize {
				t.Fatalf("Encode() length = %d, want %d", len(encoded), HeaderSize)
			}

			decoded, err := ParseHeader(encoded)
			if err != nil {
				t.Fatalf("ParseHeader() unexpected error: %v", err)
			}
			if decoded != tt.h {
				t.Errorf("round trip = %+v, want %+v", decoded, tt.h)
			}
		})
	}
}

func TestHeaderIsBroadcast(t *testing.T) {
	targeted := Header{Target: [8]byte{0xD0, 0x73, 0xD5, 0x00, 0x00, 0x01}}
	if targeted.IsBroadcast() {
		t.Error("targeted header reported as broadcast")
	}

	tagged := targeted
	tagged.Tagged = true
	if !tagged.IsBroadcast() {
		t.Error("tagged header not reported as broadcast")
	}

	zero := Header{}
	if !zero.IsBroadcast() {
		t.Error("zero-target header not reported as broadcast")
	}
}

func TestTargetFromSerial(t *testing.T) {
	target, err := TargetFromSerial("d073d5000001")
	if err != nil {
		t.Fatalf("TargetFromSerial() unexpected error: %v", err)
	}
	want := [8]byte{0xD0, 0x73, 0xD5, 0x00, 0x00, 0x01}
	if target != want {
		t.Errorf("TargetFromSerial() = %v, want %v", target, want)
	}

	h := Header{Target: target}
	if got := h.TargetSerial(); got != "d073d5000001" {
		t.Errorf("TargetSerial() = %q, want %q", got, "d073d5000001")
	}

	for _, bad := range []string{"", "d073d500000", "d073d50000011", "not-hex-here"} {
		if _, err := TargetFromSerial(bad); err == nil {
			t.Errorf("TargetFromSerial(%q) expected error", bad)
		}
	}
}

func TestEncodeHeaderSetsProtocolBits(t *testing.T) {
	encoded := Header{Size: 36}.Encode()
	// flags at offset 2: protocol 1024 | addressable
	if encoded[2] != 0x00 || encoded[3] != 0x14 {
		t.Errorf("flags bytes = %02x %02x, want 00 14", encoded[2], encoded[3])
	}
}

func TestParseHeaderIgnoresTrailingPayload(t *testing.T) {
	full := append(Header{Size: 38, Type: 21}.Encode(), 0xFF, 0xFF)
	h, err := ParseHeader(full)
	if err != nil {
		t.Fatalf("ParseHeader() unexpected error: %v", err)
	}
	if h.Type != 21 || h.Size != 38 {
		t.Errorf("ParseHeader() = %+v", h)
	}
	if !bytes.Equal(full[HeaderSize:], []byte{0xFF, 0xFF}) {
		t.Error("payload slice corrupted")
	}
}
