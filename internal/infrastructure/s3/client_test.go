package s3infra

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Presigning is local; no request leaves the process.
func newTestStore() *Store {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		BaseEndpoint: aws.String("http://localhost:4566"),
		UsePathStyle: true,
	})
	return NewStore(client, "attachments")
}

func TestPresignUpload(t *testing.T) {
	s := newTestStore()
	raw, err := s.PresignUpload(context.Background(), "u1/1700000000/abcd1234.png", "image/png", 24*time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/attachments/u1/1700000000/abcd1234.png", u.Path)
	assert.Equal(t, "86400", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, strings.Split(u.Query().Get("X-Amz-SignedHeaders"), ";"), "content-type")
}

func TestPresignUpload_ContentTypeIsSigned(t *testing.T) {
	// The signer sees the header on the request, so an upload with any other
	// Content-Type fails signature validation at S3.
	var seen http.Header
	rec := recordingSigner{next: v4.NewSigner(), seen: &seen}
	client := newTestStore().client
	presigner := s3.NewPresignClient(client, func(o *s3.PresignOptions) { o.Presigner = rec })
	s := &Store{client: client, presigner: presigner, bucket: "attachments"}

	_, err := s.PresignUpload(context.Background(), "u1/1/abcd1234.gif", "image/gif", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", seen.Get("Content-Type"))
}

func TestPresignDownload_DoesNotSignContentType(t *testing.T) {
	raw, err := newTestStore().PresignDownload(context.Background(), "u1/k.png", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.NotContains(t, strings.Split(u.Query().Get("X-Amz-SignedHeaders"), ";"), "content-type")
}

// recordingSigner captures the headers handed to the innermost signer.
type recordingSigner struct {
	next *v4.Signer
	seen *http.Header
}

func (r recordingSigner) PresignHTTP(
	ctx context.Context, credentials aws.Credentials, req *http.Request,
	payloadHash string, service string, region string, signingTime time.Time,
	optFns ...func(*v4.SignerOptions),
) (string, http.Header, error) {
	*r.seen = req.Header.Clone()
	return r.next.PresignHTTP(ctx, credentials, req, payloadHash, service, region, signingTime, optFns...)
}

func TestPresignDownload(t *testing.T) {
	s := newTestStore()
	raw, err := s.PresignDownload(context.Background(), "u1/k.png", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/attachments/u1/k.png", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
