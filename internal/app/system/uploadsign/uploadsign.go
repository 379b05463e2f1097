// Package uploadsign issues signed direct-upload tickets for the image
// CDN, so browsers upload media without the server proxying bytes.
// The signature is SHA-1 over the alphabetically sorted parameters
// concatenated with the API secret, which is the scheme Cloudinary's
// upload API verifies.
package uploadsign

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Config holds the CDN account credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Signer produces upload tickets for one CDN account.
type Signer struct {
	cfg Config
	now func() time.Time
}

// New builds a signer. Enabled reports whether credentials are present.
func New(cfg Config) *Signer {
	return &Signer{cfg: cfg, now: time.Now}
}

// Enabled reports whether the account is configured. Tenants without
// media credentials simply get no upload surface.
func (s *Signer) Enabled() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// Sign computes the hex SHA-1 signature for a parameter set. Empty
// values are excluded, matching upload API behavior.
func (s *Signer) Sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&") + s.cfg.APISecret

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Ticket is everything a browser needs for one signed direct upload.
type Ticket struct {
	UploadURL string `json:"uploadUrl"`
	APIKey    string `json:"apiKey"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	Signature string `json:"signature"`
}

// Issue creates a ticket scoped to a tenant's media folder.
func (s *Signer) Issue(tenantID string) (Ticket, error) {
	if !s.Enabled() {
		return Ticket{}, fmt.Errorf("uploadsign: media uploads not configured")
	}
	ts := s.now().Unix()
	folder := "clients/" + tenantID
	return Ticket{
		UploadURL: "https://api.cloudinary.com/v1_1/" + s.cfg.CloudName + "/image/upload",
		APIKey:    s.cfg.APIKey,
		Timestamp: ts,
		Folder:    folder,
		Signature: s.Sign(map[string]string{
			"folder":    folder,
			"timestamp": fmt.Sprintf("%d", ts),
		}),
	}, nil
}
