package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insurevis/internal/domain"
)

func TestResolveStorageObject(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    domain.StorageObject
		ok      bool
	}{
		{"relative key", "claims/abc/or.pdf", domain.StorageObject{Bucket: "docs", Key: "claims/abc/or.pdf"}, true},
		{"leading slash", "/claims/abc/or.pdf", domain.StorageObject{Bucket: "docs", Key: "claims/abc/or.pdf"}, true},
		{"public url", "https://x.supabase.co/storage/v1/object/public/insurevis-documents/claims/a/b.jpg",
			domain.StorageObject{Bucket: "insurevis-documents", Key: "claims/a/b.jpg"}, true},
		{"signed url", "https://x.supabase.co/storage/v1/object/sign/other/c.png?token=abc",
			domain.StorageObject{Bucket: "other", Key: "c.png"}, true},
		{"bare object url", "https://x.example.com/object/bucket/key.pdf",
			domain.StorageObject{Bucket: "bucket", Key: "key.pdf"}, true},
		{"empty", "   ", domain.StorageObject{}, false},
		{"no object segment", "https://cdn.example.com/files/a.pdf", domain.StorageObject{}, false},
		{"public without key", "https://x.example.com/object/public/bucket", domain.StorageObject{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ResolveStorageObject(tt.locator, "docs")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStorageObject_DefaultBucket(t *testing.T) {
	got, ok := domain.ResolveStorageObject("a/b.pdf", "")

	assert.True(t, ok)
	assert.Equal(t, domain.DefaultDocumentBucket, got.Bucket)
}
