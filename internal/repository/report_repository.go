package repository

import (
	"context"
	"time"

	"dualshot/internal/model"

	"gorm.io/gorm"
)

// ReportRow 举报导出行
type ReportRow struct {
	ID               uint      `json:"id"`
	PostID           uint      `json:"post_id"`
	ReporterID       uint      `json:"reporter_id"`
	ReporterUsername string    `json:"reporter_username"`
	AuthorID         uint      `json:"author_id"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return translate(r.db.WithContext(ctx).Create(report).Error)
}

// List 按时间顺序列出举报，since 为零值时不过滤
func (r *ReportRepository) List(ctx context.Context, since time.Time) ([]ReportRow, error) {
	q := r.db.WithContext(ctx).Table("reports AS r").
		Select("r.id, r.post_id, r.reporter_id, u.username AS reporter_username, COALESCE(p.user_id, 0) AS author_id, r.reason, r.created_at").
		Joins("JOIN users u ON u.id = r.reporter_id").
		Joins("LEFT JOIN posts p ON p.id = r.post_id")
	if !since.IsZero() {
		q = q.Where("r.created_at >= ?", since)
	}
	rows := make([]ReportRow, 0)
	err := q.Order("r.created_at, r.id").Scan(&rows).Error
	return rows, translate(err)
}
