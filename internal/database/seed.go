package database

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bytservice/repair-service-api/internal/models"
)

// Seed file names inside the seed directory. The files are ";"-separated
// with a header row, the layout inherited from the legacy import bundle.
const (
	seedUsersFile    = "inputDataUsers.txt"
	seedRequestsFile = "inputDataRequests.txt"
	seedCommentsFile = "inputDataComments.txt"
)

// legacyRoles maps role labels from the legacy export to the Role enum.
var legacyRoles = map[string]models.Role{
	"Менеджер": models.RoleManager,
	"Мастер":   models.RoleTechnician,
	"Оператор": models.RoleOperator,
	"Заказчик": models.RoleCustomer,
}

// legacyStatuses maps status labels from the legacy export.
var legacyStatuses = map[string]models.RequestStatus{
	"Новая заявка":       models.StatusNew,
	"В процессе ремонта": models.StatusInRepair,
	"Готова к выдаче":    models.StatusReadyForPickup,
	"Ожидание запчастей": models.StatusAwaitingParts,
}

// Seed imports the initial data set once: it is a no-op whenever the users
// table already has rows. The whole import runs in a single transaction.
func Seed(seedDir string) error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		users, err := readSeedUsers(filepath.Join(seedDir, seedUsersFile))
		if err != nil {
			return err
		}
		for i := range users {
			if err := tx.Create(&users[i]).Error; err != nil {
				return fmt.Errorf("failed to import user %q: %w", users[i].Login, err)
			}
		}

		requests, err := readSeedRequests(filepath.Join(seedDir, seedRequestsFile))
		if err != nil {
			return err
		}
		for i := range requests {
			if err := tx.Create(&requests[i]).Error; err != nil {
				return fmt.Errorf("failed to import request %d: %w", requests[i].ID, err)
			}
		}

		comments, err := readSeedComments(filepath.Join(seedDir, seedCommentsFile))
		if err != nil {
			return err
		}
		for i := range comments {
			if err := tx.Create(&comments[i]).Error; err != nil {
				return fmt.Errorf("failed to import comment %d: %w", comments[i].ID, err)
			}
		}

		logrus.WithFields(logrus.Fields{
			"users":    len(users),
			"requests": len(requests),
			"comments": len(comments),
		}).Info("seed data imported")
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}
	return nil
}

func readSeedRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", filepath.Base(path), err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[strings.TrimSpace(key)] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readSeedUsers(path string) ([]models.User, error) {
	rows, err := readSeedRows(path)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseUint(row["userID"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid userID %q in seed data", row["userID"])
		}

		// Legacy files carry plaintext passwords; only the hash is stored.
		hash, err := bcrypt.GenerateFromPassword([]byte(row["password"]), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}

		users = append(users, models.User{
			ID:           id,
			FullName:     row["fio"],
			Phone:        row["phone"],
			Login:        row["login"],
			PasswordHash: string(hash),
			Role:         seedRole(row["type"]),
		})
	}
	return users, nil
}

func readSeedRequests(path string) ([]models.Request, error) {
	rows, err := readSeedRows(path)
	if err != nil {
		return nil, err
	}

	requests := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseUint(row["requestID"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid requestID %q in seed data", row["requestID"])
		}
		customerID, err := strconv.ParseUint(row["clientID"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid clientID %q in seed data", row["clientID"])
		}

		startDate, err := parseSeedDate(row["startDate"])
		if err != nil {
			return nil, err
		}

		req := models.Request{
			ID:                 id,
			StartDate:          startDate,
			ApplianceType:      row["homeTechType"],
			ApplianceModel:     row["homeTechModel"],
			ProblemDescription: row["problemDescryption"],
			Status:             seedStatus(row["requestStatus"]),
			CustomerID:         customerID,
		}

		if v := nullable(row["completionDate"]); v != "" {
			completion, err := parseSeedDate(v)
			if err != nil {
				return nil, err
			}
			req.CompletionDate = &completion
		}
		if v := nullable(row["repairParts"]); v != "" {
			parts := v
			req.RepairParts = &parts
		}
		if v := nullable(row["masterID"]); v != "" {
			technicianID, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid masterID %q in seed data", v)
			}
			req.TechnicianID = &technicianID
		}

		requests = append(requests, req)
	}
	return requests, nil
}

func readSeedComments(path string) ([]models.Comment, error) {
	rows, err := readSeedRows(path)
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseUint(row["commentID"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid commentID %q in seed data", row["commentID"])
		}
		authorID, err := strconv.ParseUint(row["masterID"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid masterID %q in seed data", row["masterID"])
		}
		requestID, err := strconv.ParseUint(row["requestID"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid requestID %q in seed data", row["requestID"])
		}

		comments = append(comments, models.Comment{
			ID:        id,
			Message:   row["message"],
			AuthorID:  authorID,
			RequestID: requestID,
		})
	}
	return comments, nil
}

// nullable converts the "null"/empty sentinels of the legacy export to "".
func nullable(v string) string {
	if v == "" || v == "null" {
		return ""
	}
	return v
}

func seedRole(v string) models.Role {
	if role, ok := legacyRoles[v]; ok {
		return role
	}
	return models.Role(v)
}

func seedStatus(v string) models.RequestStatus {
	if status, ok := legacyStatuses[v]; ok {
		return status
	}
	return models.RequestStatus(v)
}

func parseSeedDate(v string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02.01.2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q in seed data", v)
}
