package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("GATEJOHN_URL", "http://localhost:5000")
		token   = envOr("GATEJOHN_TOKEN", "")
		out     = envOr("GATEJOHN_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "gatejohnctl",
		Short: "CLI para operar la API de auth de gatejohn",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env GATEJOHN_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Access token para rutas protegidas (env GATEJOHN_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Ping al endpoint de salud",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/health", nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("health fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	var regEmail, regPassword, regName, regPhone string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Registrar un usuario nuevo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if regEmail == "" || regPassword == "" || regName == "" {
				return fmt.Errorf("--email, --password y --name son requeridos")
			}
			payload := map[string]any{
				"email":    regEmail,
				"password": regPassword,
				"name":     regName,
			}
			if regPhone != "" {
				payload["phone"] = regPhone
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/api/auth/register", b)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status != http.StatusCreated {
				return fmt.Errorf("register fallo: status=%d", status)
			}
			return nil
		},
	}
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Email del usuario")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "Contraseña (mínimo 8 caracteres)")
	registerCmd.Flags().StringVar(&regName, "name", "", "Nombre")
	registerCmd.Flags().StringVar(&regPhone, "phone", "", "Teléfono (opcional)")

	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login con email y contraseña",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			b, _ := json.Marshal(map[string]string{"email": loginEmail, "password": loginPassword})
			status, body, err := cl.do("POST", "/api/auth/login", b)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status != http.StatusOK {
				return fmt.Errorf("login fallo: status=%d", status)
			}
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email del usuario")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Contraseña")

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Identidad del token actual (requiere --token)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/auth/me", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status != http.StatusOK {
				return fmt.Errorf("me fallo: status=%d", status)
			}
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revocar la sesión del token actual (requiere --token)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("POST", "/api/auth/logout", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status != http.StatusOK {
				return fmt.Errorf("logout fallo: status=%d", status)
			}
			return nil
		},
	}

	var forgotEmail string
	forgotCmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Pedir el email de recuperación de contraseña",
		RunE: func(cmd *cobra.Command, args []string) error {
			if forgotEmail == "" {
				return fmt.Errorf("--email es requerido")
			}
			b, _ := json.Marshal(map[string]string{"email": forgotEmail})
			status, body, err := cl.do("POST", "/api/auth/request-password-reset", b)
			if err != nil {
				return err
			}
			cl.print(status, body)
			return nil
		},
	}
	forgotCmd.Flags().StringVar(&forgotEmail, "email", "", "Email de la cuenta")

	root.AddCommand(healthCmd, registerCmd, loginCmd, meCmd, logoutCmd, forgotCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
