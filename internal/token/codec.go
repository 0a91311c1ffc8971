// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

// Package token decodes the session credential carried by the browser into
// the identity claims the gateway authorizes on. Decoding is pure
// computation: no storage is consulted and nothing is cached between calls.
package token

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for any credential the codec cannot turn
// into complete claims. All failure shapes collapse into this error on
// purpose: the gateway must treat every broken credential identically and
// never partially trust one.
var ErrMalformedToken = errors.New("malformed session token")

// Claims is the decoded identity for one request.
type Claims struct {
	SubjectID   int64
	Role        string
	DisplayName string
}

// SubjectIDString renders the subject ID for header propagation.
func (c *Claims) SubjectIDString() string {
	return strconv.FormatInt(c.SubjectID, 10)
}

// payload is the wire shape of the credential's claims segment.
type payload struct {
	UserID json.Number `json:"user_id"`
	Role   string      `json:"role"`
	Name   string      `json:"name"`
}

// Codec decodes session credentials.
//
// The credential is structured as three dot-separated base64url segments
// (header.payload.signature). Only the payload segment is interpreted; the
// signature segment is NOT verified here. That reproduces the issuing
// platform's observed behavior — tokens are minted and signed by the account
// service, and this gateway trusts the payload as delivered. Confirm against
// the account service before treating the missing verification as deliberate.
type Codec struct {
	parser *jwt.Parser
}

// NewCodec creates a session token codec.
func NewCodec() *Codec {
	return &Codec{parser: jwt.NewParser()}
}

// Decode parses a raw credential into Claims.
//
// Steps: split into segments, base64url-decode the payload, percent-decode
// it (display names are percent-encoded by the issuer for non-ASCII safety),
// then parse the JSON record. A credential missing its subject or role is as
// broken as one that fails base64 decoding.
func (c *Codec) Decode(raw string) (*Claims, error) {
	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(segments))
	}

	decoded, err := c.parser.DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload segment: %v", ErrMalformedToken, err)
	}

	// Percent-decoding is best effort: a payload containing a literal '%'
	// that is not an escape sequence is kept as-is.
	if unescaped, uerr := url.PathUnescape(string(decoded)); uerr == nil {
		decoded = []byte(unescaped)
	}

	var p payload
	if err := json.Unmarshal(decoded, &p); err != nil {
		return nil, fmt.Errorf("%w: payload record: %v", ErrMalformedToken, err)
	}

	if p.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrMalformedToken)
	}
	subjectID, err := p.UserID.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: user_id claim: %v", ErrMalformedToken, err)
	}
	if p.Role == "" {
		return nil, fmt.Errorf("%w: missing role claim", ErrMalformedToken)
	}

	return &Claims{
		SubjectID:   subjectID,
		Role:        p.Role,
		DisplayName: p.Name,
	}, nil
}
