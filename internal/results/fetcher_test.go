package results

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsreport/alb-status-report/pkg/models"
)

type fakeObjectGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestParse_DecodesRows(t *testing.T) {
	csv := `target_group_arn,elb_status_code,error_count
arn:aws:elasticloadbalancing:us-east-1:1:targetgroup/api-service-1-tg/a,200,100
arn:aws:elasticloadbalancing:us-east-1:1:targetgroup/api-service-1-tg/a,404,5
`

	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, models.StatusRow{
		TargetGroupARN: "arn:aws:elasticloadbalancing:us-east-1:1:targetgroup/api-service-1-tg/a",
		StatusCode:     200,
		Count:          100,
	}, rows[0])
	assert.Equal(t, 404, rows[1].StatusCode)
	assert.Equal(t, int64(5), rows[1].Count)
}

func TestParse_ColumnOrderDoesNotMatter(t *testing.T) {
	csv := `error_count,target_group_arn,elb_status_code
7,arn:aws:elasticloadbalancing:us-east-1:1:targetgroup/x-tg/a,503
`

	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 503, rows[0].StatusCode)
	assert.Equal(t, int64(7), rows[0].Count)
}

func TestParse_HeaderOnlyYieldsNoRows(t *testing.T) {
	rows, err := Parse(strings.NewReader("target_group_arn,elb_status_code,error_count\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty input", "", "header row missing"},
		{
			"missing column",
			"target_group_arn,elb_status_code\narn,200\n",
			`missing column "error_count"`,
		},
		{
			"non-integer status",
			"target_group_arn,elb_status_code,error_count\narn,OK,5\n",
			"not an integer",
		},
		{
			"non-integer count",
			"target_group_arn,elb_status_code,error_count\narn,200,many\n",
			"not an integer",
		},
		{
			"negative count",
			"target_group_arn,elb_status_code,error_count\narn,200,-3\n",
			"negative",
		},
		{
			"ragged record",
			"target_group_arn,elb_status_code,error_count\narn,200\n",
			"line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Contains(t, formatErr.Error(), tt.want)
		})
	}
}

func TestFetcher_Fetch(t *testing.T) {
	getter := &fakeObjectGetter{
		body: "target_group_arn,elb_status_code,error_count\narn:aws:elasticloadbalancing:us-east-1:1:targetgroup/api-service-1-tg/a,500,3\n",
	}
	fetcher := NewFetcher(getter, zap.NewNop())

	rows, err := fetcher.Fetch(context.Background(), "s3://athena-results-bucket/queries/exec-123.csv")
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "athena-results-bucket", getter.bucket)
	assert.Equal(t, "queries/exec-123.csv", getter.key)
}

func TestFetcher_RejectsNonS3Location(t *testing.T) {
	fetcher := NewFetcher(&fakeObjectGetter{}, zap.NewNop())

	_, err := fetcher.Fetch(context.Background(), "https://example.com/results.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an s3 URI")

	_, err = fetcher.Fetch(context.Background(), "s3://bucket-without-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing bucket or key")
}

func TestFetcher_GetObjectFailurePropagates(t *testing.T) {
	getter := &fakeObjectGetter{err: errors.New("access denied")}
	fetcher := NewFetcher(getter, zap.NewNop())

	_, err := fetcher.Fetch(context.Background(), "s3://bucket/key.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get result object")
}
