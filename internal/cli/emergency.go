package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/catalog"
)

// NewEmergencyCommand creates the emergency command.
func NewEmergencyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "emergency",
		Short: "Show crisis support lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			cat, err := catalog.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}
			hotlines := cat.Hotlines()
			if out.IsJSON() {
				return out.Success(hotlines)
			}

			var b strings.Builder
			b.WriteString("If you are in danger, call emergency services now.\n")
			for _, h := range hotlines {
				fmt.Fprintf(&b, "\n%s: %s", h.Name, h.Number)
				if h.Note != "" {
					fmt.Fprintf(&b, " (%s)", h.Note)
				}
			}
			return out.Success(b.String())
		},
	}
}
