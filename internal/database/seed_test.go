package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
)

const seedUsersData = `userID;fio;phone;login;password;type
1;Семенов Иван Петрович;+7-900-111-11-11;manager1;root;Менеджер
2;Мурашов Андрей Сергеевич;+7-900-222-22-22;murashov123;qwerty;Мастер
3;Кузьмина Ольга Викторовна;+7-900-333-33-33;operator1;op123;Оператор
4;Иванова Мария Николаевна;+7-900-444-44-44;client1;pass1;Заказчик
`

const seedRequestsData = `requestID;startDate;homeTechType;homeTechModel;problemDescryption;requestStatus;completionDate;repairParts;masterID;clientID
1;2023-06-06;Холодильник;Indesit ITR 4180 W;Не морозит;Готова к выдаче;2023-06-12;Компрессор;2;4
2;2023-06-07;Стиральная машина;LG F2J3;Протекает;В процессе ремонта;null;null;2;4
3;06.06.2023;Пылесос;Dyson V11;Не включается;Новая заявка;null;null;null;4
`

const seedCommentsData = `commentID;message;masterID;requestID
1;Заменил компрессор;2;1
2;Жду запчасти;2;2
`

func writeSeedDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		seedUsersFile:    seedUsersData,
		seedRequestsFile: seedRequestsData,
		seedCommentsFile: seedCommentsData,
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	return dir
}

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Comment{},
		&models.Feedback{},
	))

	SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestSeed_ImportsLegacyFiles(t *testing.T) {
	db := setupSeedTestDB(t)
	dir := writeSeedDir(t)

	require.NoError(t, Seed(dir))

	var users []models.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 4)
	require.Equal(t, models.RoleManager, users[0].Role)
	require.Equal(t, models.RoleTechnician, users[1].Role)
	require.Equal(t, models.RoleOperator, users[2].Role)
	require.Equal(t, models.RoleCustomer, users[3].Role)

	// Plaintext passwords from the legacy export are stored hashed.
	require.NotEqual(t, "qwerty", users[1].PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[1].PasswordHash), []byte("qwerty")))

	var requests []models.Request
	require.NoError(t, db.Order("id").Find(&requests).Error)
	require.Len(t, requests, 3)

	require.Equal(t, models.StatusReadyForPickup, requests[0].Status)
	require.NotNil(t, requests[0].CompletionDate)
	require.Equal(t, "2023-06-12", requests[0].CompletionDate.Format("2006-01-02"))
	require.NotNil(t, requests[0].RepairParts)
	require.Equal(t, "Компрессор", *requests[0].RepairParts)
	require.NotNil(t, requests[0].TechnicianID)
	require.Equal(t, uint64(2), *requests[0].TechnicianID)

	// "null" sentinels come through as NULL columns.
	require.Equal(t, models.StatusInRepair, requests[1].Status)
	require.Nil(t, requests[1].CompletionDate)
	require.Nil(t, requests[1].RepairParts)

	// Both date layouts of the legacy export are accepted.
	require.Equal(t, models.StatusNew, requests[2].Status)
	require.Equal(t, "2023-06-06", requests[2].StartDate.Format("2006-01-02"))
	require.Nil(t, requests[2].TechnicianID)

	var comments []models.Comment
	require.NoError(t, db.Order("id").Find(&comments).Error)
	require.Len(t, comments, 2)
	require.Equal(t, "Заменил компрессор", comments[0].Message)
	require.Equal(t, uint64(2), comments[0].AuthorID)
	require.Equal(t, uint64(1), comments[0].RequestID)
}

func TestSeed_SkipsWhenUsersExist(t *testing.T) {
	db := setupSeedTestDB(t)
	dir := writeSeedDir(t)

	require.NoError(t, Seed(dir))
	require.NoError(t, Seed(dir))

	var userCount, requestCount, commentCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Request{}).Count(&requestCount)
	db.Model(&models.Comment{}).Count(&commentCount)

	require.Equal(t, int64(4), userCount)
	require.Equal(t, int64(3), requestCount)
	require.Equal(t, int64(2), commentCount)
}

func TestSeed_MissingFileFailsWithoutPartialImport(t *testing.T) {
	db := setupSeedTestDB(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, seedUsersFile), []byte(seedUsersData), 0o644))

	require.Error(t, Seed(dir))

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	require.Zero(t, userCount)
}
