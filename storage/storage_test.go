package storage

import "testing"

func TestPublicURL(t *testing.T) {
	c := &Client{Bucket: "my-bucket"}
	got := c.PublicURL("images/foo.png")
	want := "https://my-bucket.s3.amazonaws.com/images/foo.png"
	if got != want {
		t.Fatalf("PublicURL() = %q, want %q", got, want)
	}
}

func TestDefaultBucketConstant(t *testing.T) {
	if DefaultBucket != "forensic-tools-s3-bucket" {
		t.Fatalf("DefaultBucket = %q, want forensic-tools-s3-bucket", DefaultBucket)
	}
}
