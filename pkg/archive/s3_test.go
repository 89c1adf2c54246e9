package archive

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vireo-ui/vireo/pkg/vtree"
)

type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &noSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

type noSuchKey struct{}

func (e *noSuchKey) Error() string { return "NoSuchKey" }

func TestS3StoreSaveLoadRoundTrip(t *testing.T) {
	rec := NewRecorder()
	record(t, rec, 1, nil, counter("0"))
	record(t, rec, 2, counter("0"), counter("1"))

	fake := newFakeS3()
	store := NewS3Store(fake, "archives", "sessions/")
	ctx := context.Background()

	if err := store.Save(ctx, "sess-1", rec); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.objects["archives/sessions/sess-1"]; !ok {
		t.Fatal("object not stored under prefixed key")
	}

	data, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}

	got, err := Rebuild(nil, data)
	if err != nil {
		t.Fatal(err)
	}
	if !vtree.Equal(got, counter("1")) {
		t.Error("loaded stream does not rebuild the final tree")
	}
}

func TestS3StoreLoadMissing(t *testing.T) {
	store := NewS3Store(newFakeS3(), "archives", "sessions/")

	if _, err := store.Load(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for missing object")
	}
}
