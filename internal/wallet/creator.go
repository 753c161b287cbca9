package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Credentials is what the external wallet-creation service hands back for a
// newly created wallet. The service owns key derivation end to end; we only
// transport its answer.
type Credentials struct {
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
	Mnemonic  string `json:"mnemonic,omitempty"`
}

// Creator creates a wallet through an external service and returns its
// credentials.
type Creator interface {
	Create(ctx context.Context, walletPath, password string) (*Credentials, error)
}

// Registry maintains the wallet metadata index (wallets_metadata.json).
// Maintenance of that index lives outside this tool; callers that need it
// plug in their own implementation.
type Registry interface {
	Register(address, walletPath string) error
}

// ExecCreator invokes an external wallet-creation binary. The command is
// expected to print a single JSON object with at least "address" and
// "public_key" on stdout.
type ExecCreator struct {
	Command string
	Timeout time.Duration
}

// Create runs the configured command to create a wallet at walletPath.
// The password is passed on stdin so it never appears in the process list.
//
// Any parse failure is a hard error: credentials must come from the service
// or not at all. There is no placeholder fallback.
func (c *ExecCreator) Create(ctx context.Context, walletPath, password string) (*Credentials, error) {
	if c.Command == "" {
		return nil, errors.New("wallet creator command not configured")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Command, "create", "--file", walletPath)
	cmd.Stdin = strings.NewReader(password + "\n")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("wallet creator %q: %v: %s", c.Command, err, msg)
		}
		return nil, fmt.Errorf("wallet creator %q: %w", c.Command, err)
	}

	return ParseCredentials(out)
}

// ParseCredentials decodes the creator's JSON response, rejecting anything
// without real address and key material.
func ParseCredentials(out []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(out, &creds); err != nil {
		return nil, fmt.Errorf("unparseable wallet creator output: %w", err)
	}
	if creds.Address == "" {
		return nil, errors.New("wallet creator returned no address")
	}
	if creds.PublicKey == "" {
		return nil, errors.New("wallet creator returned no public key")
	}
	return &creds, nil
}
