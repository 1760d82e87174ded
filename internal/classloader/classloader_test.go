package classloader

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

type fakeService struct {
	loadName string
	loadErr  error
	resumed  []byte
	resumeErr error
}

func (f *fakeService) Load(ctx context.Context, classImage []byte) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	return f.loadName, nil
}

func (f *fakeService) Resume(ctx context.Context, continuation []byte) ([]byte, error) {
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	return f.resumed, nil
}

func TestServerLoadDelegatesToService(t *testing.T) {
	srv := NewServer(&fakeService{loadName: "com.example.Point"})
	out, err := srv.load(context.Background(), wrapperspb.Bytes([]byte("classbytes")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.GetValue() != "com.example.Point" {
		t.Errorf("got %q, want com.example.Point", out.GetValue())
	}
}

func TestServerLoadWrapsServiceError(t *testing.T) {
	srv := NewServer(&fakeService{loadErr: errors.New("bad class image")})
	_, err := srv.load(context.Background(), wrapperspb.Bytes(nil))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestServerResumeDelegatesToService(t *testing.T) {
	srv := NewServer(&fakeService{resumed: []byte("result")})
	out, err := srv.resume(context.Background(), wrapperspb.Bytes([]byte("checkpoint-bytes")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out.GetValue()) != "result" {
		t.Errorf("got %q, want result", out.GetValue())
	}
}

func TestLoadHandlerDecodesAndDispatches(t *testing.T) {
	srv := NewServer(&fakeService{loadName: "X"})
	dec := func(v interface{}) error {
		*(v.(*wrapperspb.BytesValue)) = *wrapperspb.Bytes([]byte("img"))
		return nil
	}
	out, err := loadHandler(srv, context.Background(), dec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(*wrapperspb.StringValue).GetValue() != "X" {
		t.Errorf("unexpected result: %v", out)
	}
}
