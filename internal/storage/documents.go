package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

// SaveDocument inserts or replaces a document.
func (s *SQLiteStorage) SaveDocument(ctx context.Context, doc *model.Document) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParameter)
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	var amount any
	if doc.HasAmount {
		amount = doc.Amount
	}

	lastModified := doc.LastModified
	if lastModified.IsZero() {
		lastModified = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (
			id, title, type, category, entity, issue_date, amount,
			status, tags, file_path, created_by, last_modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, string(doc.Type), string(doc.Category),
		nullString(doc.Entity), doc.IssueDate, amount,
		string(doc.Status), encodeTags(doc.Tags),
		nullString(doc.FilePath), nullString(doc.CreatedBy), lastModified,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	slog.Debug("saved document", "id", doc.ID, "type", doc.Type)
	return nil
}

// GetDocumentByID returns a single document.
func (s *SQLiteStorage) GetDocumentByID(ctx context.Context, id string) (*model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, type, category, entity, issue_date, amount,
		       status, tags, file_path, created_by, last_modified
		FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// GetDocuments returns documents matching the filter, newest first.
func (s *SQLiteStorage) GetDocuments(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, type, category, entity, issue_date, amount,
		       status, tags, file_path, created_by, last_modified
		FROM documents WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Entity != "" {
		query += " AND entity = ?"
		args = append(args, filter.Entity)
	}
	if filter.IssuedFrom != nil {
		query += " AND issue_date >= ?"
		args = append(args, *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query += " AND issue_date <= ?"
		args = append(args, *filter.IssuedTo)
	}
	if filter.AmountMin != nil {
		query += " AND amount >= ?"
		args = append(args, *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		query += " AND amount <= ?"
		args = append(args, *filter.AmountMax)
	}

	query += " ORDER BY issue_date DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// UpdateDocumentStatus transitions a document to a new status.
func (s *SQLiteStorage) UpdateDocumentStatus(ctx context.Context, id string, status model.DocumentStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET status = ?, last_modified = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var doc model.Document
	var entity, tags, filePath, createdBy sql.NullString
	var issueDate sql.NullTime
	var amount sql.NullFloat64
	var docType, category, status string

	err := row.Scan(&doc.ID, &doc.Title, &docType, &category, &entity,
		&issueDate, &amount, &status, &tags, &filePath, &createdBy, &doc.LastModified)
	if err != nil {
		return nil, err
	}

	doc.Type = model.DocumentType(docType)
	doc.Category = model.DocumentCategory(category)
	doc.Status = model.DocumentStatus(status)
	doc.Entity = entity.String
	doc.FilePath = filePath.String
	doc.CreatedBy = createdBy.String
	if issueDate.Valid {
		doc.IssueDate = issueDate.Time
	}
	if amount.Valid {
		doc.Amount = amount.Float64
		doc.HasAmount = true
	}
	doc.Tags = decodeTags(tags.String)
	return &doc, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Tags are stored as a comma-joined list; order is preserved.
func encodeTags(tags []string) string {
	return strings.Join(tags, ",")
}

func decodeTags(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, ",")
}

// Keywords share the tag encoding.
func encodeKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}
