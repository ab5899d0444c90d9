package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	sc "github.com/dmitrijs2005/bookmarks/internal/server/config"
	"github.com/dmitrijs2005/bookmarks/internal/server/models"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ExportLinkValidity is how long the presigned download link stays usable.
const ExportLinkValidity = 15 * time.Minute

// ErrExportDisabled is returned when no export bucket is configured.
var ErrExportDisabled = errors.New("export is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return s3.NewPresignClient(c).PresignGetObject(ctx, in, optFns...)
	}
)

// Export points at an uploaded snapshot of a subject's bookmarks.
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// exportDocument is the JSON written to object storage.
type exportDocument struct {
	SubjectID  string             `json:"subjectId"`
	ExportedAt time.Time          `json:"exportedAt"`
	Bookmarks  []*models.Bookmark `json:"bookmarks"`
}

// ExportService uploads a subject's bookmarks to S3-compatible storage and
// hands back a short-lived download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "export"),
		now:         time.Now,
	}
}

// Enabled reports whether an export bucket is configured.
func (s *ExportService) Enabled() bool {
	return s.config.S3Bucket != ""
}

// ExportKey builds exports/<subject>/<yyyy>/<mm>/<dd>/<uuid>.json.
func ExportKey(subjectID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", subjectID, t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export serializes the subject's bookmarks, uploads them and returns a
// presigned GET link valid for ExportLinkValidity.
func (s *ExportService) Export(ctx context.Context, subjectID string) (*Export, error) {
	if !s.Enabled() {
		return nil, ErrExportDisabled
	}

	list, err := s.repomanager.Bookmarks(s.db).ListByUser(ctx, subjectID)
	if err != nil {
		return nil, storeError(err)
	}
	if list == nil {
		list = []*models.Bookmark{}
	}

	now := s.now()
	body, err := json.Marshal(exportDocument{SubjectID: subjectID, ExportedAt: now.UTC(), Bookmarks: list})
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(subjectID, now)

	if err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(client, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportLinkValidity))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Info(ctx, "bookmarks exported", "user_id", subjectID, "key", key, "count", len(list))

	return &Export{Key: key, URL: req.URL, Count: len(list), ExpiresAt: now.Add(ExportLinkValidity)}, nil
}
