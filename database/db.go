package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"schoolfees-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// TenantSession returns a new DB session with search_path set to the given
// school schema. Used outside request scope (registration, migrations).
func TenantSession(schema string) (*gorm.DB, error) {
	schema = strings.TrimSpace(schema)
	if schema == "" {
		return nil, fmt.Errorf("empty schema name")
	}

	tenantDB := DB.Session(&gorm.Session{NewDB: true})
	if err := tenantDB.Exec("SET search_path TO " + schema).Error; err != nil {
		return nil, err
	}

	return tenantDB, nil
}

func Connect() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	dsn := fmt.Sprintf("host=db user=%s password=%s dbname=%s port=5432 sslmode=disable TimeZone=Asia/Kolkata",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		fmt.Println(err)
		panic("Could not connect to database")
	}
}

// AutoMigrate covers the public schema: logins and school tenant roots.
func AutoMigrate() {
	DB.AutoMigrate(models.User{}, models.School{})
}
