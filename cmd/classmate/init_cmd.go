package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .classmate.yaml config file",
	Long:  `Create a .classmate.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".classmate.yaml"); err == nil && !force {
			return fmt.Errorf(".classmate.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".classmate.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .classmate.yaml")
		return nil
	},
}

const defaultConfig = `# classmate configuration
# Docs: https://github.com/classmate-dev/classmate

# Shared settings
verbose: false

# Workspace scanning
workspace:
  root: .
  include:
    - "**/*.{html,htm,xhtml,vue,jsx,tsx,templ}"
  exclude:
    - "**/node_modules/**"
    - "**/vendor/**"
    - "**/dist/**"
    - "**/build/**"
    - "**/.git/**"
  gitignore: true

# Name generation
generate:
  auto: false          # fill class=""/id="" insertions reported to the daemon
  prefix: elem
  prefix-mode: fixed   # fixed | element

# Editor-host daemon
serve:
  addr: 127.0.0.1:7345
  watch: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
