package repository

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/repository"
)

// GormOracleRosterRepository persists the oracle roster in PostgreSQL so
// assigned indexes and simulated status codes survive relay restarts
type GormOracleRosterRepository struct {
	db *gorm.DB
}

// NewGormOracleRosterRepository creates a new GORM oracle roster repository
func NewGormOracleRosterRepository(db *gorm.DB) repository.OracleRosterRepository {
	return &GormOracleRosterRepository{
		db: db,
	}
}

// Oracles GORM model for database mapping
type Oracles struct {
	Address    string `gorm:"column:address;primaryKey"`
	Index0     uint8  `gorm:"column:index_0"`
	Index1     uint8  `gorm:"column:index_1"`
	Index2     uint8  `gorm:"column:index_2"`
	StatusCode uint8  `gorm:"column:status_code"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (Oracles) TableName() string {
	return "m_oracles"
}

// FindAll returns every persisted oracle
func (r *GormOracleRosterRepository) FindAll(ctx context.Context) ([]*entity.Oracle, error) {
	var records []Oracles
	result := r.db.WithContext(ctx).Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	oracles := make([]*entity.Oracle, len(records))
	for i, record := range records {
		oracles[i] = &entity.Oracle{
			Address:      common.HexToAddress(record.Address),
			Indexes:      [3]uint8{record.Index0, record.Index1, record.Index2},
			StatusCode:   entity.StatusCode(record.StatusCode),
			IsRegistered: true,
		}
	}
	return oracles, nil
}

// Upsert inserts or updates one oracle keyed on its address
func (r *GormOracleRosterRepository) Upsert(ctx context.Context, oracle *entity.Oracle) error {
	record := Oracles{
		Address:    oracle.Address.Hex(),
		Index0:     oracle.Indexes[0],
		Index1:     oracle.Indexes[1],
		Index2:     oracle.Indexes[2],
		StatusCode: uint8(oracle.StatusCode),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			UpdateAll: true,
		}).
		Create(&record)
	return result.Error
}
