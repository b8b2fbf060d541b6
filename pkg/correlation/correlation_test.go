// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sigvectors.
//
// go-sigvectors is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package correlation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithRunID(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		runID string
		want  string
	}{
		{
			name:  "Add run ID to context",
			ctx:   context.Background(),
			runID: "test-run-id",
			want:  "test-run-id",
		},
		{
			name:  "Add run ID to nil context",
			ctx:   nil,
			runID: "test-run-id-2",
			want:  "test-run-id-2",
		},
		{
			name:  "Add empty run ID",
			ctx:   context.Background(),
			runID: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithRunID(tt.ctx, tt.runID)
			if ctx == nil {
				t.Fatal("WithRunID returned nil context")
			}
			got := GetRunID(ctx)
			if got != tt.want {
				t.Errorf("GetRunID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetRunIDMissing(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	if got := GetRunID(nil); got != "" {
		t.Errorf("GetRunID(nil) = %q, want empty", got)
	}
	if got := GetRunID(context.Background()); got != "" {
		t.Errorf("GetRunID(background) = %q, want empty", got)
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() returned invalid UUID %q: %v", id, err)
	}
	if id == NewID() {
		t.Error("NewID() returned the same ID twice")
	}
}

func TestGetOrGenerate(t *testing.T) {
	ctx := WithRunID(context.Background(), "existing")
	if got := GetOrGenerate(ctx); got != "existing" {
		t.Errorf("GetOrGenerate() = %q, want existing", got)
	}

	generated := GetOrGenerate(context.Background())
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("GetOrGenerate() generated invalid UUID %q", generated)
	}
}

func TestEnsure(t *testing.T) {
	ctx, id := Ensure(context.Background())
	if id == "" {
		t.Fatal("Ensure() returned empty ID")
	}
	if got := GetRunID(ctx); got != id {
		t.Errorf("GetRunID() = %q, want %q", got, id)
	}

	ctx2, id2 := Ensure(ctx)
	if id2 != id {
		t.Errorf("Ensure() replaced existing ID %q with %q", id, id2)
	}
	if GetRunID(ctx2) != id {
		t.Error("Ensure() lost the existing run ID")
	}
}
