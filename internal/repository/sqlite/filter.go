package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/printscript/snippet-manager/internal/model"
	"github.com/printscript/snippet-manager/internal/repository"
)

// Search implements the filter query collaborator.
//
// Visibility: a snippet is visible to identity if identity is its author
// or a status row exists for (snippet, identity). The LEFT JOIN pulls in
// the requesting user's own status row, which also backs the status
// filter and the Status field of each summary.
//
// Results are ordered by descending id. xid ids sort by creation time,
// so this is newest-first.
func (db *DB) Search(ctx context.Context, filter model.Filter, page repository.PageRequest, identity string) (*model.Page, error) {
	where := []string{"(s.author = ? OR st.user_email IS NOT NULL)"}
	args := []any{identity}

	if name := strings.TrimSpace(filter.Name); name != "" {
		where = append(where, "s.name LIKE ?")
		args = append(args, "%"+name+"%")
	}
	if filter.Language != "" {
		where = append(where, "s.language = ?")
		args = append(args, filter.Language)
	}
	if filter.Status != "" {
		where = append(where, "st.status = ?")
		args = append(args, string(filter.Status))
	}

	from := `FROM snippets s
		 LEFT JOIN snippet_statuses st
		   ON st.snippet_id = s.id AND st.user_email = ?`
	whereClause := "WHERE " + strings.Join(where, " AND ")

	// The join condition consumes the first placeholder.
	queryArgs := append([]any{identity}, args...)

	var total int
	countQuery := "SELECT COUNT(*) " + from + " " + whereClause
	if err := db.conn.QueryRowContext(ctx, countQuery, queryArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("sqlite: counting snippets: %w", err)
	}

	query := `SELECT s.id, s.name, s.language, s.author, COALESCE(st.status, '') ` +
		from + " " + whereClause +
		` ORDER BY s.id DESC LIMIT ? OFFSET ?`
	rows, err := db.conn.QueryContext(ctx, query,
		append(queryArgs, page.Size, page.Page*page.Size)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: filtering snippets: %w", err)
	}
	defer rows.Close()

	items := make([]model.SnippetSummary, 0, page.Size)
	for rows.Next() {
		var s model.SnippetSummary
		var status string
		if err := rows.Scan(&s.ID, &s.Name, &s.Language, &s.Author, &status); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet summary: %w", err)
		}
		s.Status = model.Status(status)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet summaries: %w", err)
	}

	totalPages := 0
	if page.Size > 0 {
		totalPages = (total + page.Size - 1) / page.Size
	}

	return &model.Page{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
