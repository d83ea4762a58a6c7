package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/hdl-tools/logical/internal/model"
)

// pingTimeout bounds the health check done before the first container
// step. Docker Desktop can take a few seconds to answer after sleep.
const pingTimeout = 5 * time.Second

// windowsPipe is the Docker Desktop engine on Windows.
const windowsPipe = `//./pipe/docker_engine`

// Client is the connection container steps and prune go through.
type Client struct {
	// inner is held as the SDK interface so tests can pass a fake daemon.
	inner client.APIClient
}

// NewClient connects to the daemon that runs container steps.
//
// The standard DOCKER_* variables (DOCKER_HOST, DOCKER_TLS_VERIFY,
// DOCKER_CERT_PATH, DOCKER_API_VERSION) take precedence. Without
// DOCKER_HOST the first local socket from socketCandidates that exists
// is used. No connection is made until the first request; call Ping to
// fail early.
func NewClient() (*Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}

	if os.Getenv("DOCKER_HOST") == "" {
		host, err := localHost()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitDockerNotRunning,
				"no Docker daemon found for container steps (set DOCKER_HOST or drop --container)", err)
		}
		opts = append(opts, client.WithHost(host))
	}

	c, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning, "invalid Docker client settings", err)
	}
	return &Client{inner: c}, nil
}

// NewClientFromAPI wraps an existing SDK client or a test double.
func NewClientFromAPI(api client.APIClient) *Client {
	return &Client{inner: api}
}

// localHost returns the host URI of the local daemon.
func localHost() (string, error) {
	if runtime.GOOS == "windows" {
		// Named pipes cannot be stat'ed; dial briefly instead.
		conn, err := net.DialTimeout("pipe", windowsPipe, time.Second)
		if err != nil {
			return "", fmt.Errorf("named pipe %s: %w", windowsPipe, err)
		}
		conn.Close()
		return "npipe://" + windowsPipe, nil
	}

	home, _ := os.UserHomeDir()
	return firstSocket(socketCandidates(runtime.GOOS, home, os.Getenv("XDG_RUNTIME_DIR")))
}

// socketCandidates lists where a local Docker socket may live, most
// common first: the system daemon, rootless Docker, Docker Desktop and
// Colima. Empty home or runtimeDir drop the entries that need them.
func socketCandidates(goos, home, runtimeDir string) []string {
	paths := []string{"/var/run/docker.sock"}
	switch goos {
	case "linux":
		if runtimeDir != "" {
			paths = append(paths, filepath.Join(runtimeDir, "docker.sock"))
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, ".docker", "desktop", "docker.sock"))
		}
	case "darwin":
		if home != "" {
			paths = append(paths,
				filepath.Join(home, ".docker", "run", "docker.sock"),
				filepath.Join(home, ".colima", "default", "docker.sock"),
			)
		}
	}
	return paths
}

// firstSocket returns the unix:// URI of the first path that exists.
func firstSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("no socket at %v", paths)
}

// Ping checks that the daemon answers within pingTimeout, so that a run
// fails before its first step rather than in the middle of it.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(ctx); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			"Docker daemon is not responding; container steps need a running daemon", err)
	}
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the SDK client for calls the wrapper does not expose.
func (c *Client) Inner() client.APIClient {
	return c.inner
}
