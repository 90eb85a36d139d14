package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestReportKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("IST", 19800))
	assert.Equal(t, "reports/2024/03/09/week-20240309T083507Z.pdf", ReportKey("week", at))
}

func TestPutReport(t *testing.T) {
	fake := &fakeS3{}
	a := &Archive{client: fake, bucket: "floor-reports", log: zap.NewNop()}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	key, err := a.PutReport(context.Background(), "today", at, []byte("%PDF-1.3"))
	require.NoError(t, err)

	assert.Equal(t, "reports/2024/01/02/today-20240102T030405Z.pdf", key)
	assert.Equal(t, "floor-reports", *fake.in.Bucket)
	assert.Equal(t, "application/pdf", *fake.in.ContentType)
	assert.Equal(t, []byte("%PDF-1.3"), fake.body)
}

func TestPutReportError(t *testing.T) {
	a := &Archive{client: &fakeS3{err: errors.New("denied")}, bucket: "b", log: zap.NewNop()}
	_, err := a.PutReport(context.Background(), "day", time.Now(), []byte("x"))
	assert.ErrorContains(t, err, "denied")
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{}, zap.NewNop())
	assert.Error(t, err)
}
