package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository].
type documentRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

const saveDocument = `INSERT INTO documents (client_id, category, file_name, object_key, content_type, size_bytes, uploaded_by, uploaded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id;`

const deleteDocument = `DELETE FROM documents WHERE id = $1;`

func (r *documentRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	log := logger.FromContext(ctx)

	doc.UploadedAt = models.TruncWatermark(doc.UploadedAt)

	err := r.db.QueryRowContext(ctx, saveDocument,
		doc.ClientID, doc.Category, doc.FileName, doc.Key,
		doc.ContentType, doc.SizeBytes, doc.UploadedBy, doc.UploadedAt,
	).Scan(&doc.ID)
	if err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: id %d", ErrClientNotFound, doc.ClientID)
		}
		log.Err(err).
			Str("func", "documentRepository.SaveDocument").
			Int64("client_id", doc.ClientID).
			Str("object_key", doc.Key).
			Msg("failed to save document metadata")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *documentRepository) GetDocument(ctx context.Context, id int64) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "client_id", "category", "file_name", "object_key", "content_type", "size_bytes", "uploaded_by", "uploaded_at").
		From("documents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var doc models.Document
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(
		&doc.ID, &doc.ClientID, &doc.Category, &doc.FileName, &doc.Key,
		&doc.ContentType, &doc.SizeBytes, &doc.UploadedBy, &doc.UploadedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Document{}, fmt.Errorf("%w: id %d", ErrDocumentNotFound, id)
		}
		log.Err(scanErr).
			Str("func", "documentRepository.GetDocument").
			Int64("id", id).
			Msg("failed to read document row")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return doc, nil
}

func (r *documentRepository) ListDocuments(ctx context.Context, clientID int64, category models.DocumentCategory) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	builder := psql.
		Select("id", "client_id", "category", "file_name", "object_key", "content_type", "size_bytes", "uploaded_by", "uploaded_at").
		From("documents").
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("uploaded_at DESC")
	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.db.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "documentRepository.ListDocuments").
			Int64("client_id", clientID).
			Msg("failed to execute query for listing documents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	docs := make([]models.Document, 0, 10)
	for rows.Next() {
		var doc models.Document
		scanErr := rows.Scan(
			&doc.ID, &doc.ClientID, &doc.Category, &doc.FileName, &doc.Key,
			&doc.ContentType, &doc.SizeBytes, &doc.UploadedBy, &doc.UploadedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		docs = append(docs, doc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return docs, nil
}

func (r *documentRepository) DeleteDocument(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteDocument, id)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.DeleteDocument").
			Int64("id", id).
			Msg("failed to delete document")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrDocumentNotFound, id)
	}

	return nil
}
