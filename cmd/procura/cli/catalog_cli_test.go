package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/procura-platform/procura/internal/authz"
)

func TestValidateCommandJSONSuccess(t *testing.T) {
	cli := NewCatalogOpsCLI(authz.DefaultCatalog())

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := cli.ValidateCommand(CatalogValidateOptions{
		JSONOutput: true,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	require.Zero(t, exitCode)
	require.Empty(t, stderr.String())

	var summary CatalogValidateSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	require.True(t, summary.OK)
	require.Empty(t, summary.Gaps)
	require.Len(t, summary.SubRoles, 4)
}

func TestValidateCommandJSONGaps(t *testing.T) {
	catalog := authz.NewCatalog(
		map[string][]authz.Key{
			"Sourcing": {authz.KeyDashboard, authz.KeySuppliers},
		},
		map[authz.Key]authz.ActionSet{
			authz.KeyDashboard: {CanView: true},
			// suppliers left without defaults on purpose
			authz.KeySuppliers: {},
		},
	)
	cli := NewCatalogOpsCLI(catalog)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := cli.ValidateCommand(CatalogValidateOptions{
		JSONOutput: true,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	require.Equal(t, 10, exitCode)
	require.Empty(t, stderr.String())

	var summary CatalogValidateSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	require.False(t, summary.OK)
	require.Len(t, summary.Gaps, 1)
	require.Equal(t, "suppliers", summary.Gaps[0].Key)
}

func TestValidateCommandUnknownSubRole(t *testing.T) {
	cli := NewCatalogOpsCLI(authz.DefaultCatalog())

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := cli.ValidateCommand(CatalogValidateOptions{
		SubRole: "Phantom",
		Stdout:  stdout,
		Stderr:  stderr,
	})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "unknown sub-role")
}
