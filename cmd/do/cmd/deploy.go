package cmd

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

type deployTarget struct {
	host     string // user@host
	port     string
	keyPath  string
	insecure bool
	service  string
	dir      string
}

func DeployCmd() *cobra.Command {
	var target deployTarget
	var binary string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the server binary to a host and restart its systemd unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target.host == "" {
				return fmt.Errorf("--host is required or set SSH_HOST env")
			}
			return deploy(target, binary)
		},
	}

	cmd.PersistentFlags().StringVar(&target.host, "host", os.Getenv("SSH_HOST"), "SSH host (user@host) or set SSH_HOST env")
	cmd.PersistentFlags().StringVar(&target.port, "port", "22", "SSH port")
	cmd.PersistentFlags().StringVar(&target.keyPath, "key", "", "Path to SSH private key (default: ~/.ssh/id_ed25519)")
	cmd.PersistentFlags().BoolVar(&target.insecure, "insecure", false, "skip known_hosts verification")
	cmd.PersistentFlags().StringVar(&target.service, "service", "compoundjoy", "systemd unit name")
	cmd.PersistentFlags().StringVar(&target.dir, "dir", "/opt/compoundjoy", "install directory on the host (holds .env and data/)")
	cmd.Flags().StringVar(&binary, "binary", "bin/server", "linux binary to upload (see: do build)")

	var lines int
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent journal lines for the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target.host == "" {
				return fmt.Errorf("--host is required or set SSH_HOST env")
			}
			return serviceLogs(target, lines)
		},
	}
	logsCmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines")
	cmd.AddCommand(logsCmd)

	return cmd
}

func deploy(t deployTarget, binary string) error {
	data, err := os.ReadFile(binary)
	if err != nil {
		return fmt.Errorf("read binary: %w", err)
	}

	client, err := sshConnect(t)
	if err != nil {
		return fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	if _, err := runSSHCommand(client, "mkdir -p "+t.dir+"/data", nil); err != nil {
		return fmt.Errorf("create install dir: %w", err)
	}

	remote := t.dir + "/server"
	fmt.Printf("Uploading %s (%d bytes) to %s...\n", binary, len(data), remote)
	upload := fmt.Sprintf("cat > %[1]s.new && chmod 755 %[1]s.new && mv %[1]s.new %[1]s", remote)
	if _, err := runSSHCommand(client, upload, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload binary: %w", err)
	}

	unitPath := "/etc/systemd/system/" + t.service + ".service"
	fmt.Printf("Writing %s...\n", unitPath)
	if _, err := runSSHCommand(client, "cat > "+unitPath, strings.NewReader(systemdUnit(t.service, t.dir))); err != nil {
		return fmt.Errorf("write unit: %w", err)
	}

	fmt.Println("Restarting service...")
	steps := []string{
		"systemctl daemon-reload",
		"systemctl enable " + t.service,
		"systemctl restart " + t.service,
	}
	for _, step := range steps {
		if out, err := runSSHCommand(client, step, nil); err != nil {
			return fmt.Errorf("%s: %w\n%s", step, err, out)
		}
	}

	state, _ := runSSHCommand(client, "systemctl is-active "+t.service, nil)
	fmt.Printf("Service %s is %s\n", t.service, strings.TrimSpace(state))
	return nil
}

func serviceLogs(t deployTarget, lines int) error {
	client, err := sshConnect(t)
	if err != nil {
		return fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	out, err := runSSHCommand(client, fmt.Sprintf("journalctl -u %s -n %d --no-pager", t.service, lines), nil)
	if err != nil {
		return fmt.Errorf("journalctl: %w", err)
	}
	fmt.Print(out)
	return nil
}

// systemdUnit renders the unit file. Configuration is read from dir/.env by
// the server itself.
func systemdUnit(service, dir string) string {
	return fmt.Sprintf(`[Unit]
Description=%[1]s savings ledger API
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
WorkingDirectory=%[2]s
ExecStart=%[2]s/server
Restart=on-failure
RestartSec=2
KillSignal=SIGTERM
TimeoutStopSec=15

[Install]
WantedBy=multi-user.target
`, service, dir)
}

func runSSHCommand(client *ssh.Client, cmd string, stdin io.Reader) (string, error) {
	session, err := client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	if stdin != nil {
		session.Stdin = stdin
	}

	output, err := session.CombinedOutput(cmd)
	return string(output), err
}

func sshConnect(t deployTarget) (*ssh.Client, error) {
	authMethods, err := getAuthMethods(t.keyPath)
	if err != nil {
		return nil, err
	}

	hostKeys, err := hostKeyCallback(t.insecure)
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            parseUser(t.host),
		Auth:            authMethods,
		HostKeyCallback: hostKeys,
	}

	addr := net.JoinHostPort(parseHost(t.host), t.port)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return client, nil
}

func hostKeyCallback(insecure bool) (ssh.HostKeyCallback, error) {
	if insecure {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}

	callback, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return nil, fmt.Errorf("load known_hosts (use --insecure to skip): %w", err)
	}
	return callback, nil
}

func getAuthMethods(keyPath string) ([]ssh.AuthMethod, error) {
	// Try ssh-agent first
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" && keyPath == "" {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			agentClient := agent.NewClient(conn)
			keys, err := agentClient.List()
			if err == nil && len(keys) > 0 {
				return []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)}, nil
			}
			conn.Close()
		}
	}

	// Fall back to key file
	var key []byte
	var err error

	if keyPath != "" {
		key, err = os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("read key %s: %w", keyPath, err)
		}
	} else {
		key, err = findSSHKey()
		if err != nil {
			return nil, err
		}
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse key (use ssh-add to load passphrase-protected keys): %w", err)
	}

	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

func findSSHKey() ([]byte, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}

	keyNames := []string{"id_ed25519", "id_rsa", "id_ecdsa"}
	for _, name := range keyNames {
		key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err == nil {
			return key, nil
		}
	}

	return nil, fmt.Errorf("no SSH key found in ~/.ssh (tried: %v)", keyNames)
}

func parseUser(host string) string {
	if user, _, ok := strings.Cut(host, "@"); ok {
		return user
	}
	return "root"
}

func parseHost(host string) string {
	if _, h, ok := strings.Cut(host, "@"); ok {
		return h
	}
	return host
}
