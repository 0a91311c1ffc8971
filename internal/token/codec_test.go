// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package token

import (
	"encoding/base64"
	"errors"
	"testing"
)

// encodeSegment base64url-encodes a credential segment without padding.
func encodeSegment(data string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(data))
}

// buildCredential assembles header.payload.signature from raw JSON strings.
// The signature is deliberately garbage: the codec must not look at it.
func buildCredential(payloadJSON string) string {
	header := encodeSegment(`{"alg":"HS256","typ":"JWT"}`)
	return header + "." + encodeSegment(payloadJSON) + ".not-a-real-signature"
}

func TestDecodeValidCredential(t *testing.T) {
	codec := NewCodec()

	claims, err := codec.Decode(buildCredential(`{"user_id":42,"role":"guru","name":"Ust. Hasan"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if claims.SubjectID != 42 {
		t.Errorf("SubjectID = %d, want 42", claims.SubjectID)
	}
	if claims.Role != "guru" {
		t.Errorf("Role = %q, want guru", claims.Role)
	}
	if claims.DisplayName != "Ust. Hasan" {
		t.Errorf("DisplayName = %q, want Ust. Hasan", claims.DisplayName)
	}
}

func TestDecodeIgnoresSignature(t *testing.T) {
	codec := NewCodec()

	payload := `{"user_id":7,"role":"santri","name":"Aisyah"}`
	header := encodeSegment(`{"alg":"HS256","typ":"JWT"}`)

	for _, sig := range []string{"", "x", "tampered-signature-bytes"} {
		claims, err := codec.Decode(header + "." + encodeSegment(payload) + "." + sig)
		if err != nil {
			t.Fatalf("Decode() with signature %q error = %v", sig, err)
		}
		if claims.SubjectID != 7 {
			t.Errorf("SubjectID = %d, want 7", claims.SubjectID)
		}
	}
}

func TestDecodePercentEncodedName(t *testing.T) {
	codec := NewCodec()

	claims, err := codec.Decode(buildCredential(`{"user_id":3,"role":"ortu","name":"Nur%20Azizah"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if claims.DisplayName != "Nur Azizah" {
		t.Errorf("DisplayName = %q, want %q", claims.DisplayName, "Nur Azizah")
	}
}

func TestDecodeFailures(t *testing.T) {
	codec := NewCodec()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty credential", ""},
		{"two segments", encodeSegment("{}") + "." + encodeSegment(`{"user_id":1,"role":"guru"}`)},
		{"four segments", "a.b.c.d"},
		{"payload not base64", encodeSegment("{}") + ".!!!." + "sig"},
		{"payload not json", buildCredential(`{"user_id":`)},
		{"payload truncated", buildCredential(`{"user_id":42,"role":"adm`)},
		{"missing user_id", buildCredential(`{"role":"guru","name":"X"}`)},
		{"missing role", buildCredential(`{"user_id":9,"name":"X"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Decode(tt.raw)
			if err == nil {
				t.Fatalf("Decode(%q) = %+v, want error", tt.raw, claims)
			}
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformedToken", tt.raw, err)
			}
		})
	}
}

func TestDecodeIsPure(t *testing.T) {
	codec := NewCodec()
	raw := buildCredential(`{"user_id":11,"role":"yayasan","name":"Ketua"}`)

	first, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("first Decode() error = %v", err)
	}
	second, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("second Decode() error = %v", err)
	}
	if *first != *second {
		t.Errorf("Decode not deterministic: %+v vs %+v", first, second)
	}
}
