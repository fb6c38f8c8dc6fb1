// Package ssh checks that deployment targets accept SSH logins with the
// credentials handed to the deployment tool.
//
// Security: host key verification is disabled by default because targets are
// usually freshly provisioned. Set Credentials.HostKeyCallback to verify keys.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/crypto/ssh"
)

var (
	// ErrMissingUsername is returned when credentials carry no username.
	ErrMissingUsername = errors.New("ssh username is required")
	// ErrNoAuthMethod is returned when neither a password nor a key file is set.
	ErrNoAuthMethod = errors.New("ssh password or key_file is required")
	// ErrMissingHost is returned when probing an empty host.
	ErrMissingHost = errors.New("ssh host is required")
)

// Credentials describe how to log into deployment targets.
// Field names follow the user block of the deployment descriptor.
type Credentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	KeyFile  string `mapstructure:"key_file"`
	Port     int    `mapstructure:"port"`
	// Timeout is given in seconds in the descriptor.
	Timeout int `mapstructure:"timeout"`

	// HostKeyCallback verifies host keys. If nil, host keys are not verified.
	HostKeyCallback ssh.HostKeyCallback `mapstructure:"-"`
}

// CredentialsFromMap decodes a descriptor user block, accepting loosely typed
// values such as "22" for the port.
func CredentialsFromMap(user map[string]any) (Credentials, error) {
	var creds Credentials

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &creds,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("create credentials decoder: %w", err)
	}

	err = decoder.Decode(user)
	if err != nil {
		return Credentials{}, fmt.Errorf("decode ssh credentials: %w", err)
	}

	return creds, nil
}

func (c Credentials) port() int {
	if c.Port <= 0 {
		return v1alpha1.DefaultSSHPort
	}

	return c.Port
}

func (c Credentials) timeout() time.Duration {
	if c.Timeout <= 0 {
		return v1alpha1.DefaultSSHTimeout
	}

	return time.Duration(c.Timeout) * time.Second
}

// clientConfig builds the ssh client configuration, reading the key file if set.
func (c Credentials) clientConfig() (*ssh.ClientConfig, error) {
	if c.Username == "" {
		return nil, ErrMissingUsername
	}

	auth := make([]ssh.AuthMethod, 0, 2)

	if c.KeyFile != "" {
		key, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read ssh key %s: %w", c.KeyFile, err)
		}

		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse ssh key %s: %w", c.KeyFile, err)
		}

		auth = append(auth, ssh.PublicKeys(signer))
	}

	if c.Password != "" {
		auth = append(auth, ssh.Password(c.Password))
	}

	if len(auth) == 0 {
		return nil, ErrNoAuthMethod
	}

	hostKeyCallback := c.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // targets are freshly provisioned hosts
	}

	return &ssh.ClientConfig{
		User:            c.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         c.timeout(),
	}, nil
}

// Prober opens and immediately closes SSH sessions.
type Prober struct {
	dialer *net.Dialer
}

// NewProber creates a Prober.
func NewProber() *Prober {
	return &Prober{dialer: &net.Dialer{}}
}

// Probe logs into host with creds and closes the connection.
// It returns nil when the handshake and authentication succeed.
func (p *Prober) Probe(ctx context.Context, host string, creds Credentials) error {
	if host == "" {
		return ErrMissingHost
	}

	config, err := creds.clientConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	addr := net.JoinHostPort(host, strconv.Itoa(creds.port()))

	conn, err := p.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	deadline, _ := ctx.Deadline()
	_ = conn.SetDeadline(deadline)

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()

		return fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)

	_ = client.Close()

	return nil
}
