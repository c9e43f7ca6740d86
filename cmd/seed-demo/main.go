package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/database"
	"github.com/sekolahku/presensi-backend/internal/logger"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
	"github.com/sekolahku/presensi-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	classRepo := repository.NewClassRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	classService := service.NewClassService(classRepo)
	studentService := service.NewStudentService(studentRepo)

	fmt.Println("=== Seeding Demo Class ===")

	className := "Kelas 1A"

	var classID int
	var existingClass model.Class
	err = pool.QueryRow(ctx, "SELECT id, name FROM classes WHERE name = $1", className).
		Scan(&existingClass.ID, &existingClass.Name)

	if err != nil {
		if err == pgx.ErrNoRows {
			fmt.Printf("Class %s not found. Creating it...\n", className)
			newClass := &model.Class{Name: className}
			if err := classService.Create(ctx, newClass); err != nil {
				log.Fatal().Err(err).Msg("Failed to create class")
			}
			classID = newClass.ID
			fmt.Printf("Created class with ID: %d\n", classID)
		} else {
			log.Fatal().Err(err).Msg("Failed to check existing class")
		}
	} else {
		classID = existingClass.ID
		fmt.Printf("Found existing class with ID: %d\n", classID)
	}

	names := []string{
		"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
		"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
		"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
		"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
		"Rafi Ahmad", "Siska Saraswati", "Toni Setiawan", "Umi Kalsum", "Vina Panduwinata",
		"Wahyu Hidayat", "Xena Maharani", "Yudi Pratama", "Zaki Anwar", "Alifia Zahra",
	}

	successCount := 0
	for i, name := range names {
		student := &model.Student{
			NISN:   fmt.Sprintf("%010d", i+1),
			Name:   name,
			Gender: model.GenderMale,
		}
		if i%2 != 0 {
			student.Gender = model.GenderFemale
		}

		if err := studentService.Create(ctx, student); err != nil {
			fmt.Printf("Error creating student %s (NISN: %s): %v\n", student.Name, student.NISN, err)
			continue
		}

		if err := classService.AddMember(ctx, classID, student.ID); err != nil {
			fmt.Printf("Error enrolling student %s: %v\n", student.Name, err)
			continue
		}

		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students to %s.\n", successCount, len(names), className)
}
