package poster

import (
	"context"
	"errors"
	"strings"
	"testing"

	appconfig "vod-platform/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUpload_ReturnsPublicURL(t *testing.T) {
	fake := &fakeS3{}
	s := &Store{client: fake, bucket: "posters", publicBaseURL: "https://cdn.example.com/posters"}

	url, err := s.Upload(context.Background(), []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/posters/posters/") {
		t.Fatalf("unexpected url: %q", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("expected .png suffix, got %q", url)
	}
	if fake.lastInput == nil || *fake.lastInput.Bucket != "posters" {
		t.Fatalf("expected PutObject against posters bucket")
	}
}

func TestUpload_RejectsEmptyData(t *testing.T) {
	s := &Store{client: &fakeS3{}, bucket: "posters", publicBaseURL: "x"}
	if _, err := s.Upload(context.Background(), nil, "image/png"); err == nil {
		t.Fatalf("expected error for empty data")
	}
}

func TestUpload_PropagatesS3Error(t *testing.T) {
	boom := errors.New("denied")
	s := &Store{client: &fakeS3{err: boom}, bucket: "posters", publicBaseURL: "x"}
	if _, err := s.Upload(context.Background(), []byte("img"), ""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped s3 error, got %v", err)
	}
}

func TestPublicBaseURL_Defaults(t *testing.T) {
	got := publicBaseURL(appconfig.PosterConfig{Endpoint: "http://localhost:9000/", Bucket: "posters"})
	if got != "http://localhost:9000/posters" {
		t.Fatalf("unexpected base url: %q", got)
	}

	got = publicBaseURL(appconfig.PosterConfig{Bucket: "posters", Region: "us-east-1"})
	if got != "https://posters.s3.us-east-1.amazonaws.com" {
		t.Fatalf("unexpected base url: %q", got)
	}
}
