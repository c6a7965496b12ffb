package mysql

import (
	"testing"
	"time"

	reqDomain "procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/workflow"
	"procurement-approval/internal/infrastructure/db"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
// One connection only, otherwise each pooled conn sees its own database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb, MasterDataModels()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func makeRequisition(requisitionID, number, creator string, items ...string) *reqDomain.Requisition {
	r := &reqDomain.Requisition{
		RequisitionID:     requisitionID,
		RequisitionNumber: number,
		CreatorID:         creator,
		CompanyID:         "C1",
		ProjectID:         "P1",
		OperationCenterID: "OC1",
		Priority:          reqDomain.PriorityNormal,
		Justification:     "site works",
		Status:            workflow.StatusPendiente,
		StatusUpdatedAt:   time.Now().UTC(),
		Version:           1,
	}
	for i, m := range items {
		r.Items = append(r.Items, reqDomain.Item{
			ItemNumber: i + 1,
			MaterialID: m,
			Quantity:   decimal.NewFromInt(int64(i + 1)),
		})
	}
	return r
}
