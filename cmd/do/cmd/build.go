package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	var output string
	var version string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the server binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildServer(output, version)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "bin/server", "binary path")
	cmd.Flags().StringVar(&version, "version", "", "version stamped into the binary (default: git describe)")
	return cmd
}

func buildServer(output, version string) error {
	if version == "" {
		version = gitVersion()
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}

	fmt.Println("==> Building", output, "version", version)
	ldflags := fmt.Sprintf("-s -w -X main.version=%s", version)
	if err := run("go", "build", "-trimpath", "-ldflags", ldflags, "-o", output, "./cmd/server"); err != nil {
		return fmt.Errorf("go build failed: %w", err)
	}

	fmt.Println("==> Done!")
	return nil
}

func gitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(string(out))
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
