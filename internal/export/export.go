package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/database"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"
)

// Reader loads one table. database.ReadTable bound to a pool satisfies it.
type Reader func(ctx context.Context, table string) (*database.TableData, error)

type Snapshot struct {
	Timestamp string
	Version   string
	Schema    string
	Tables    map[string]*database.TableData
	Order     []string
}

const maxParallelReads = 4

// Collect reads the tables concurrently. The first failed read cancels the
// rest and is returned.
func Collect(ctx context.Context, read Reader, schema string, tables []string, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		Timestamp: now.Format("2006-01-02 15:04:05"),
		Version:   "1.0",
		Schema:    schema,
		Tables:    make(map[string]*database.TableData, len(tables)),
		Order:     tables,
	}

	results := make([]*database.TableData, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, table := range tables {
		g.Go(func() error {
			data, err := read(gctx, table)
			if err != nil {
				return fmt.Errorf("failed to get data for table %s: %w", table, err)
			}
			for _, row := range data.Rows {
				for j, v := range row {
					row[j] = normalize(v)
				}
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, table := range tables {
		snap.Tables[table] = results[i]
	}
	return snap, nil
}

// normalize turns driver values into types every output format can hold.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil {
			return nil
		}
		return f.Float64
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.UTC().Format(time.RFC3339)
	case []byte:
		return string(x)
	default:
		return x
	}
}

func PerformExport(snap *Snapshot, exportPath, format string) (string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	switch format {
	case "csv":
		return exportToCSV(snap, exportPath)
	case "sqlite":
		return exportToSQLite(snap, exportPath)
	case "json", "":
		return exportToJSON(snap, exportPath)
	default:
		return "", fmt.Errorf("unsupported export format %q (json, csv or sqlite)", format)
	}
}

func stamp(snap *Snapshot) string {
	return strings.NewReplacer(" ", "_", ":", "-").Replace(snap.Timestamp)
}

func rowsAsMaps(t *database.TableData) []map[string]any {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}

func exportToJSON(snap *Snapshot, exportPath string) (string, error) {
	filePath := filepath.Join(exportPath, fmt.Sprintf("export_%s.json", stamp(snap)))

	doc := struct {
		Timestamp string                      `json:"timestamp"`
		Version   string                      `json:"version"`
		Schema    string                      `json:"schema"`
		Tables    map[string][]map[string]any `json:"tables"`
	}{
		Timestamp: snap.Timestamp,
		Version:   snap.Version,
		Schema:    snap.Schema,
		Tables:    make(map[string][]map[string]any, len(snap.Tables)),
	}
	for name, t := range snap.Tables {
		doc.Tables[name] = rowsAsMaps(t)
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToCSV(snap *Snapshot, exportPath string) (string, error) {
	dirPath := filepath.Join(exportPath, fmt.Sprintf("export_%s_csv", stamp(snap)))
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for _, name := range snap.Order {
		if err := writeCSV(filepath.Join(dirPath, name+".csv"), snap.Tables[name]); err != nil {
			return "", err
		}
	}
	return dirPath, nil
}

func writeCSV(path string, t *database.TableData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file for %s: %w", t.Name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				values[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file for %s: %w", t.Name, err)
	}
	return nil
}

var sqliteQB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func exportToSQLite(snap *Snapshot, exportPath string) (string, error) {
	filePath := filepath.Join(exportPath, fmt.Sprintf("export_%s.db", stamp(snap)))

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to open SQLite transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range snap.Order {
		t := snap.Tables[name]
		createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), buildColumnDefs(t.Columns))
		if _, err := tx.Exec(createSQL); err != nil {
			return "", fmt.Errorf("failed to create table %s: %w", name, err)
		}

		quoted := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			quoted[i] = quote(col)
		}
		for _, row := range t.Rows {
			insertSQL, args, err := sqliteQB.Insert(quote(name)).Columns(quoted...).Values(row...).ToSql()
			if err != nil {
				return "", err
			}
			if _, err := tx.Exec(insertSQL, args...); err != nil {
				return "", fmt.Errorf("failed to insert row into %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit SQLite export: %w", err)
	}
	return filePath, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func buildColumnDefs(columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quote(col)
	}
	return strings.Join(defs, ", ")
}
