package database

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// InitFirebase ทำหน้าที่เชื่อมต่อ Firebase และคืนค่า Clients กลับไป
func InitFirebase() (*firestore.Client, *auth.Client, error) {
	// 1. โหลดค่าจากไฟล์ .env เข้าสู่ระบบ (ถ้าไม่มีไฟล์ก็อ่านจาก env ตรงๆ)
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not found, reading from environment variables")
	}

	// 2. อ่านค่า Path ของไฟล์ Key จาก Environment Variable
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		log.Fatalf("FIREBASE_CREDENTIALS_PATH environment variable not set")
	}

	ctx := context.Background()
	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, nil, err
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, err
	}

	return firestoreClient, authClient, nil
}
