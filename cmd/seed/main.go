package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fivealab/planner/internal/config"
	"github.com/fivealab/planner/internal/database"
	"github.com/fivealab/planner/internal/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var subjects = []string{"Math", "English", "Science", "History"}

var firstNames = []string{
	"Alex", "Ben", "Chloe", "Dana", "Eli", "Fay", "Gus", "Hana",
	"Iris", "Jun", "Kai", "Lena", "Milo", "Nina", "Omar", "Pia",
	"Quinn", "Rosa", "Sam", "Tess", "Uma", "Vera", "Wes", "Xena",
	"Yuri", "Zoe", "Ada", "Bo", "Cleo", "Drew",
}

func main() {
	var students int
	flag.IntVar(&students, "students", 30, "number of demo students to create")
	var days int
	flag.IntVar(&days, "days", 45, "number of trailing days to fill with tasks")
	var seed int64
	flag.Int64Var(&seed, "seed", 1, "random seed for reproducible data")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))
	if err := seedDemo(db, rng, students, days); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Printf("Seeded %d students with %d days of tasks", students, days)
}

// seedDemo fills the database with a demo roster. Every student gets
// daily tasks for the trailing window, skipping weekends, with a random
// per-student baseline so the roster signals spread across all colors.
func seedDemo(db *gorm.DB, rng *rand.Rand, students, days int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < students; i++ {
			name := firstNames[i%len(firstNames)]
			user := models.User{
				Username:     fmt.Sprintf("student%02d", i+1),
				PasswordHash: string(hash),
				Role:         models.RoleStudent,
				RealName:     fmt.Sprintf("%s %c.", name, 'A'+rune(i%26)),
				GroupLabel:   fmt.Sprintf("Group %d", i%3+1),
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			// Baseline in [30,90] so tiers and signals vary per student
			baseline := 30 + rng.Intn(61)

			var tasks []models.DailyTask
			for d := days - 1; d >= 0; d-- {
				date := today.AddDate(0, 0, -d)
				wd := date.Weekday()
				if wd == time.Saturday || wd == time.Sunday {
					continue
				}
				for _, subject := range subjects {
					achievement := baseline + rng.Intn(31) - 15
					if achievement < 0 {
						achievement = 0
					}
					if achievement > 100 {
						achievement = 100
					}
					tasks = append(tasks, models.DailyTask{
						UserID:      user.ID,
						Date:        date,
						Subject:     subject,
						Content:     fmt.Sprintf("%s unit %d", subject, days-d),
						Achievement: achievement,
					})
				}
			}
			if len(tasks) > 0 {
				if err := tx.CreateInBatches(tasks, 200).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
