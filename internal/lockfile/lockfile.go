package lockfile

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const requestTimeout = 3 * time.Second

// credentials is the parsed lockfile tuple. The session is rebuilt only
// when this tuple changes.
type credentials struct {
	pid      string
	port     string
	password string
	protocol string
}

// Provider discovers the local client's credential lockfile and hands out a
// reusable authenticated HTTP client for it.
type Provider struct {
	mu      sync.Mutex
	paths   []string
	current credentials
	client  *resty.Client
	baseURL string
	log     zerolog.Logger
}

// NewProvider creates a provider. When override is non-empty it is tried
// before the platform-specific candidate paths.
func NewProvider(override string, log zerolog.Logger) *Provider {
	paths := candidatePaths()
	if strings.TrimSpace(override) != "" {
		paths = append([]string{override}, paths...)
	}
	return &Provider{
		paths: paths,
		log:   log.With().Str("component", "lcu-session").Logger(),
	}
}

func candidatePaths() []string {
	paths := []string{
		`C:\Riot Games\League of Legends\lockfile`,
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		paths = append(paths, filepath.Join(localAppData, "Riot Games", "Riot Client", "Config", "lockfile"))
	}
	return paths
}

// Acquire returns an authenticated client and base URL for the local API.
// A missing or malformed lockfile means the local service is unavailable:
// the final return is false and callers must treat it as "no data", never
// as fatal.
func (p *Provider) Acquire() (*resty.Client, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	path, ok := p.findLockfile()
	if !ok {
		return nil, "", false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false
	}

	creds, ok := parseLockfile(string(raw))
	if !ok {
		return nil, "", false
	}

	if creds == p.current && p.client != nil {
		return p.client, p.baseURL, true
	}

	baseURL := fmt.Sprintf("https://127.0.0.1:%s", creds.port)
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetBasicAuth("riot", creds.password).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) // loopback self-signed cert

	p.current = creds
	p.client = client
	p.baseURL = baseURL

	p.log.Info().
		Str("port", creds.port).
		Str("protocol", creds.protocol).
		Str("pid", creds.pid).
		Msg("lockfile session established")

	return p.client, p.baseURL, true
}

func (p *Provider) findLockfile() (string, bool) {
	for _, path := range p.paths {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// parseLockfile splits the 5-field colon-delimited record
// (label:pid:port:password:protocol).
func parseLockfile(raw string) (credentials, bool) {
	fields := strings.Split(strings.TrimSpace(raw), ":")
	if len(fields) != 5 {
		return credentials{}, false
	}
	creds := credentials{
		pid:      fields[1],
		port:     fields[2],
		password: fields[3],
		protocol: strings.TrimSpace(fields[4]),
	}
	if creds.port == "" || creds.password == "" {
		return credentials{}, false
	}
	return creds, true
}
