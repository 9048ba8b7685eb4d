package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/usecase_radar/pkg/config"
	"github.com/iWorld-y/usecase_radar/pkg/model"
)

// Storage 报告归档存储。JSON 文件是权威产物，
// 数据库只做镜像，写入失败不影响流水线。
type Storage struct {
	db *sql.DB
}

// NewStorage 连接数据库并初始化表结构
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close 关闭数据库连接
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id SERIAL PRIMARY KEY,
			company_name TEXT NOT NULL,
			analysis_date TEXT NOT NULL,
			filename TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS research_entries (
			id SERIAL PRIMARY KEY,
			report_id INTEGER REFERENCES reports(id),
			category TEXT NOT NULL,
			summary TEXT,
			details TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS use_cases (
			id SERIAL PRIMARY KEY,
			report_id INTEGER REFERENCES reports(id),
			case_id INTEGER,
			description TEXT,
			generated_at TEXT
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// SaveReport 在一个事务内归档整份报告
func (s *Storage) SaveReport(report *model.Report, filename string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var reportID int
	err = tx.QueryRow(
		`INSERT INTO reports (company_name, analysis_date, filename) VALUES ($1, $2, $3) RETURNING id`,
		report.CompanyName, report.AnalysisDate, filename,
	).Scan(&reportID)
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: %v", err, rerr)
		}
		return err
	}

	// Create research entries
	for _, category := range model.Categories() {
		entry := report.ResearchData[category]
		details := removeNullBytes(strings.Join(entry.Details, "\n"))
		_, err = tx.Exec(
			`INSERT INTO research_entries (report_id, category, summary, details) VALUES ($1, $2, $3, $4)`,
			reportID, string(category), removeNullBytes(entry.Summary), details,
		)
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
			return err
		}
	}

	// Create use cases
	for _, uc := range report.AIUseCases {
		_, err = tx.Exec(
			`INSERT INTO use_cases (report_id, case_id, description, generated_at) VALUES ($1, $2, $3, $4)`,
			reportID, uc.ID, removeNullBytes(uc.Description), uc.GeneratedAt,
		)
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
			return err
		}
	}

	return tx.Commit()
}

// removeNullBytes PostgreSQL 文本字段不支持 NULL 字节
func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
