package inventory

import (
	"testing"

	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/dbtest"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t)
}
