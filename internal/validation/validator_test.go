// Gerbang - Session and Route Authorization Gateway for the Al-Khairaat School Platform
// Copyright 2026 Al-Khairaat Engineering
// SPDX-License-Identifier: Apache-2.0
// https://github.com/alkhairaat/gerbang

package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Name    string `validate:"required"`
	Port    int    `validate:"min=1,max=65535"`
	Landing string `validate:"required,startswith=/"`
}

func TestValidateStructPasses(t *testing.T) {
	s := sample{Name: "gerbang", Port: 8410, Landing: "/guru/dashboard"}
	if err := ValidateStruct(&s); err != nil {
		t.Fatalf("ValidateStruct: %v", err)
	}
}

func TestValidateStructReportsAllFailures(t *testing.T) {
	s := sample{Port: 0, Landing: "guru"}
	err := ValidateStruct(&s)
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{"Name is required", "Port must be at least 1", "Landing must start with"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}
