package testutil

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// GenerateRandomData generates random bytes of the specified size.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	//nolint:gosec // test data only
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	_, _ = r.Read(data)
	return data
}

// CalculateETag returns the MD5-based ETag S3 reports for a single-part upload.
func CalculateETag(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// CreateTestObject creates a listing entry for key.
func CreateTestObject(key string, size int64) types.Object {
	return types.Object{
		Key:          aws.String(key),
		Size:         aws.Int64(size),
		ETag:         aws.String(fmt.Sprintf(`"%s"`, CalculateETag([]byte(key)))),
		LastModified: aws.Time(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// CreateListObjectsV2Output creates a test ListObjectsV2Output structure.
// A non-empty next token marks the output truncated.
func CreateListObjectsV2Output(objects []types.Object, nextToken string) *s3.ListObjectsV2Output {
	output := &s3.ListObjectsV2Output{
		Contents:    objects,
		KeyCount:    aws.Int32(int32(len(objects))),
		MaxKeys:     aws.Int32(1000),
		Name:        aws.String("test-bucket"),
		IsTruncated: aws.Bool(nextToken != ""),
	}
	if nextToken != "" {
		output.NextContinuationToken = aws.String(nextToken)
	}
	return output
}

// CreateGetObjectOutput creates a test GetObjectOutput structure.
func CreateGetObjectOutput(data []byte, contentType string) *s3.GetObjectOutput {
	out := &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ETag:          aws.String(fmt.Sprintf(`"%s"`, CalculateETag(data))),
		LastModified:  aws.Time(time.Now()),
	}
	if contentType != "" {
		out.ContentType = aws.String(contentType)
	}
	return out
}
