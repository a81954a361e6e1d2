package cli

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurevis/internal/config"
	"insurevis/internal/domain"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func failingOptions() *RootOptions {
	return &RootOptions{
		Format: "text",
		loadConfig: func() (*config.Config, error) {
			return nil, errors.New("db settings missing")
		},
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"migrate", "reconcile", "user", "export"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := runRoot(t, "--format", "yaml", "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestExportCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"claimant role", []string{"export", "--role", "claimant"}, "--role must be"},
		{"unknown file format", []string{"export", "--file-format", "pdf"}, "pdf"},
		{"unknown status", []string{"export", "--status", "archived"}, `unknown claim status "archived"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMigrateSteps_InvalidArgument(t *testing.T) {
	_, err := runRoot(t, "migrate", "steps", "two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid steps argument "two"`)
}

func TestReconcileCommand_ConfigError(t *testing.T) {
	cmd := NewReconcileCommand(failingOptions())
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config: db settings missing")
}

func TestUserCreateCommand_RequiresEmail(t *testing.T) {
	cmd := NewUserCommand(failingOptions())
	cmd.SetArgs([]string{"create", "--password", "longenough"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestWriteActions(t *testing.T) {
	claimID := uuid.MustParse("5b0f6a3e-2f4c-4d8e-9a1b-3c2d1e0f9a8b")

	var buf bytes.Buffer
	writeActions(&buf, claimID, nil)
	assert.Equal(t, "claim 5b0f6a3e-2f4c-4d8e-9a1b-3c2d1e0f9a8b: consistent\n", buf.String())

	buf.Reset()
	writeActions(&buf, claimID, []domain.ReconciliationAction{
		{Role: domain.RoleCarCompany, Reason: "unverified documents", UnverifiedDocumentIDs: []uuid.UUID{uuid.New()}, Applied: true},
		{Role: domain.RoleInsuranceCompany, Reason: "no qualifying documents"},
	})
	assert.Equal(t,
		"claim 5b0f6a3e-2f4c-4d8e-9a1b-3c2d1e0f9a8b: car_company demoted (unverified documents, 1 unverified)\n"+
			"claim 5b0f6a3e-2f4c-4d8e-9a1b-3c2d1e0f9a8b: insurance_company already cleared (no qualifying documents, 0 unverified)\n",
		buf.String())
}

func TestPrintResult(t *testing.T) {
	v := map[string]int{"scanned": 2}

	var buf bytes.Buffer
	require.NoError(t, printResult(&RootOptions{Format: "json"}, &buf, v, func(w io.Writer) {
		t.Fatal("text fallback used for json format")
	}))
	assert.JSONEq(t, `{"scanned":2}`, buf.String())

	buf.Reset()
	require.NoError(t, printResult(&RootOptions{Format: "text"}, &buf, v, func(w io.Writer) {
		_, _ = io.WriteString(w, "scanned 2\n")
	}))
	assert.Equal(t, "scanned 2\n", buf.String())
}
