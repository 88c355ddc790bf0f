package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/procura-platform/procura/internal/authz"
)

// CatalogOpsCLI offers operational checks over the permission catalog.
type CatalogOpsCLI struct {
	catalog *authz.Catalog
}

// NewCatalogOpsCLI constructs the helper for the given catalog.
func NewCatalogOpsCLI(catalog *authz.Catalog) *CatalogOpsCLI {
	return &CatalogOpsCLI{catalog: catalog}
}

// CatalogValidateOptions defines available flags for the catalog validate
// command.
type CatalogValidateOptions struct {
	SubRole    string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// CatalogValidateSummary describes the JSON response for catalog validate.
type CatalogValidateSummary struct {
	OK       bool                  `json:"ok"`
	SubRoles []CatalogSubRoleEntry `json:"sub_roles"`
	Gaps     []CatalogGap          `json:"gaps"`
}

// CatalogSubRoleEntry reports the menu keys a sub-role covers.
type CatalogSubRoleEntry struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// CatalogGap captures a sub-role entry pointing at a key without default
// actions. Sessions built from such an entry would carry an empty grant.
type CatalogGap struct {
	SubRole string `json:"sub_role"`
	Key     string `json:"key"`
}

// ValidateCommand checks that every catalog entry resolves to usable action
// defaults and prints the outcome. Exit code 10 signals detected gaps.
func (c *CatalogOpsCLI) ValidateCommand(opts CatalogValidateOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if c == nil || c.catalog == nil {
		_, _ = fmt.Fprintln(opts.Stderr, "catalog validate: catalog not configured")
		return 1
	}

	names := c.catalog.SubRoleNames()
	if opts.SubRole != "" {
		name := strings.ToLower(strings.TrimSpace(opts.SubRole))
		found := false
		for _, known := range names {
			if known == name {
				found = true
				break
			}
		}
		if !found {
			_, _ = fmt.Fprintf(opts.Stderr, "catalog validate: unknown sub-role %q\n", opts.SubRole)
			return 1
		}
		names = []string{name}
	}

	summary := buildCatalogSummary(c.catalog, names)
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "catalog validate: encode json: %v\n", err)
			return 1
		}
	} else {
		renderCatalogHuman(opts.Stdout, summary)
	}
	if len(summary.Gaps) > 0 {
		return 10
	}
	return 0
}

func buildCatalogSummary(catalog *authz.Catalog, names []string) CatalogValidateSummary {
	summary := CatalogValidateSummary{OK: true}
	for _, name := range names {
		keys := catalog.PermissionsForSubRole(name)
		entry := CatalogSubRoleEntry{Name: name, Keys: make([]string, 0, len(keys))}
		for _, key := range keys {
			entry.Keys = append(entry.Keys, string(key))
			if catalog.ActionDefaults(key).IsZero() {
				summary.Gaps = append(summary.Gaps, CatalogGap{SubRole: name, Key: string(key)})
			}
		}
		sort.Strings(entry.Keys)
		summary.SubRoles = append(summary.SubRoles, entry)
	}
	sort.Slice(summary.Gaps, func(i, j int) bool {
		if summary.Gaps[i].SubRole == summary.Gaps[j].SubRole {
			return summary.Gaps[i].Key < summary.Gaps[j].Key
		}
		return summary.Gaps[i].SubRole < summary.Gaps[j].SubRole
	})
	summary.OK = len(summary.Gaps) == 0
	return summary
}

func renderCatalogHuman(out io.Writer, summary CatalogValidateSummary) {
	for _, entry := range summary.SubRoles {
		_, _ = fmt.Fprintf(out, "%s: %s\n", entry.Name, strings.Join(entry.Keys, ", "))
	}
	if summary.OK {
		_, _ = fmt.Fprintln(out, "All catalog entries resolve to default actions.")
		return
	}
	_, _ = fmt.Fprintf(out, "%d gap(s) detected:\n", len(summary.Gaps))
	for _, gap := range summary.Gaps {
		_, _ = fmt.Fprintf(out, " - %s references %s which has no default actions\n", gap.SubRole, gap.Key)
	}
}
