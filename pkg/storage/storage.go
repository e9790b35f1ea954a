// Package storage puts user uploads somewhere a browser can fetch them.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"greenhouse/pkg/apierr"
)

type ObjectStore interface {
	Name() string
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", fmt.Errorf("storage: empty key %q", key)
	}
	return k, nil
}

type diskStore struct {
	dir     string
	baseURL string
}

// NewDisk writes under dir; files are served at baseURL + "/uploads/".
func NewDisk(dir, baseURL string) ObjectStore {
	return &diskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *diskStore) Name() string { return "disk" }

func (d *diskStore) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(d.dir, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return "", err
	}
	return d.baseURL + "/uploads/" + k, nil
}

type supabaseStore struct {
	client  *resty.Client
	baseURL string
	bucket  string
}

// NewSupabase uploads to a public Supabase Storage bucket.
func NewSupabase(baseURL, key, bucket string) ObjectStore {
	c := resty.New().
		SetBaseURL(baseURL+"/storage/v1").
		SetHeader("apikey", key).
		SetAuthToken(key).
		SetTimeout(30 * time.Second)
	return &supabaseStore{client: c, baseURL: baseURL, bucket: bucket}
}

func (s *supabaseStore) Name() string { return "supabase" }

func (s *supabaseStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	resp, err := s.client.R().SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(r).
		Post("/object/" + s.bucket + "/" + k)
	if err != nil {
		return "", apierr.Upstream("storage", err)
	}
	if resp.IsError() {
		return "", apierr.Upstream("storage", fmt.Errorf("%s: %s", resp.Status(), strings.TrimSpace(resp.String())))
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, k), nil
}
