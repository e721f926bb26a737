// Command token mints a branch-role JWT for local development against the
// terminal service.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hellocms/blackforest/internal/auth"
	"github.com/hellocms/blackforest/internal/config"
	"github.com/hellocms/blackforest/internal/enum"
)

func main() {
	userID := flag.String("user", "dev-user", "User ID claim")
	branchID := flag.String("branch", "", "Branch ID claim (empty: any branch)")
	name := flag.String("name", "Branch User", "Display name claim")
	role := flag.String("role", enum.RoleBranch, "Role claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Development() && cfg.JWTSecret == "dev-secret-change-in-production" {
		log.Println("WARNING: Signing with the default development secret.")
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, *userID, *branchID, *name, *role, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}
