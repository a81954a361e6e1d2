package domain

import (
	"net/url"
	"strings"
)

// DefaultDocumentBucket is the bucket documents live in when the locator does not name one.
const DefaultDocumentBucket = "insurevis-documents"

// StorageObject is a resolved object-storage location.
type StorageObject struct {
	Bucket string
	Key    string
}

// ResolveStorageObject turns a document's storage locator into a bucket and key.
// Locators are either bucket-relative keys or legacy storage URLs of the form
// .../object/{public|sign}/<bucket>/<key>. ok is false when nothing usable is found.
func ResolveStorageObject(locator, defaultBucket string) (StorageObject, bool) {
	locator = strings.TrimSpace(locator)
	if defaultBucket == "" {
		defaultBucket = DefaultDocumentBucket
	}
	if locator == "" {
		return StorageObject{}, false
	}
	if !strings.Contains(locator, "://") {
		return StorageObject{Bucket: defaultBucket, Key: strings.TrimPrefix(locator, "/")}, true
	}

	u, err := url.Parse(locator)
	if err != nil {
		return StorageObject{}, false
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	idx := -1
	for i, p := range parts {
		if p == "object" {
			idx = i
			break
		}
	}
	if idx == -1 || len(parts) < idx+3 {
		return StorageObject{}, false
	}

	var obj StorageObject
	if kind := parts[idx+1]; kind == "public" || kind == "sign" {
		if len(parts) < idx+4 {
			return StorageObject{}, false
		}
		obj = StorageObject{Bucket: parts[idx+2], Key: strings.Join(parts[idx+3:], "/")}
	} else {
		obj = StorageObject{Bucket: parts[idx+1], Key: strings.Join(parts[idx+2:], "/")}
	}
	if obj.Bucket == "" || obj.Key == "" {
		return StorageObject{}, false
	}
	return obj, true
}
