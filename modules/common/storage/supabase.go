package storage

import (
	"bytes"
	"context"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseMirror uploads saved images to a Supabase Storage bucket
type SupabaseMirror struct {
	client *supabase.Client
	bucket string
}

// NewSupabaseMirror - Supabase client authenticated with the service key
func NewSupabaseMirror(url, serviceKey, bucket string) (*SupabaseMirror, error) {
	if bucket == "" {
		return nil, fmt.Errorf("supabase bucket is required")
	}

	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &SupabaseMirror{
		client: client,
		bucket: bucket,
	}, nil
}

// Upload - upsert so repeated ideas replace the object, like the local file
func (m *SupabaseMirror) Upload(_ context.Context, name string, data []byte, contentType string) error {
	upsert := true
	_, err := m.client.Storage.UploadFile(m.bucket, name, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", name, m.bucket, err)
	}
	return nil
}
