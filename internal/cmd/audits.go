package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/srcmapaudit/cmd/state"
	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
)

type auditInfo struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	RequiredArtifacts []string `json:"requiredArtifacts"`
}

// cmdAudits handles the `srcmapaudit audits` sub-command
type cmdAudits struct {
	gs     *state.GlobalState
	locale string
	isJSON bool
}

func (c *cmdAudits) run(_ *cobra.Command, _ []string) error {
	tr := i18n.NewTranslator(c.locale)
	all := newAuditRegistry().All()

	infos := make([]auditInfo, 0, len(all))
	idWidth := 0
	for _, a := range all {
		meta := a.Meta()
		infos = append(infos, auditInfo{
			ID:                meta.ID,
			Title:             tr.Format(meta.Title),
			Description:       tr.Format(meta.Description),
			RequiredArtifacts: meta.RequiredArtifacts,
		})
		if len(meta.ID) > idWidth {
			idWidth = len(meta.ID)
		}
	}

	if c.isJSON {
		data, err := json.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to produce the JSON audit list: %w", err)
		}
		_, err = fmt.Fprintln(c.gs.Stdout, string(data))
		return err
	}

	var sb strings.Builder
	for _, info := range infos {
		fmt.Fprintf(&sb, "%-*s  %s (requires: %s)\n",
			idWidth, info.ID, info.Title, strings.Join(info.RequiredArtifacts, ", "))
	}
	_, err := fmt.Fprint(c.gs.Stdout, sb.String())
	return err
}

func getCmdAudits(gs *state.GlobalState) *cobra.Command {
	c := &cmdAudits{gs: gs}

	cmd := &cobra.Command{
		Use:   "audits",
		Short: "List the available audits",
		Long:  `List the audits that can be selected with 'check --audit'.`,
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cmd.Flags().StringVar(&c.locale, "locale", i18n.DefaultLocale, "`locale` of the audit titles")
	cmd.Flags().BoolVar(&c.isJSON, "json", false, "if set, the list will be in JSON format")

	return cmd
}
