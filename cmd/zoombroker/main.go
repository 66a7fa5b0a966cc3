// Command zoombroker es la CLI operativa del broker: consulta estado, usuarios,
// grabaciones y hace logout contra un servicio en ejecución.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cl := &client{
		BaseURL:   envOr("ZOOMBROKER_URL", "http://localhost:8000"),
		OutFormat: envOr("ZOOMBROKER_OUT", "text"),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Out:       os.Stdout,
	}

	root := &cobra.Command{
		Use:           "zoombroker",
		Short:         "CLI para el broker OAuth de grabaciones de Zoom",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cl.Out = cmd.OutOrStdout()
		},
	}
	root.PersistentFlags().StringVar(&cl.BaseURL, "url", cl.BaseURL, "URL base del servicio (env ZOOMBROKER_URL)")
	root.PersistentFlags().StringVar(&cl.OutFormat, "out", cl.OutFormat, "Formato de salida: json|text")

	root.AddCommand(
		&cobra.Command{
			Use:   "health",
			Short: "Health check del servicio",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cl.call("health", http.MethodGet, "/health")
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Lista los usuarios autenticados",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cl.call("status", http.MethodGet, "/oauth/status")
			},
		},
		&cobra.Command{
			Use:   "login-url",
			Short: "Pide una URL de autorización nueva",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cl.call("login-url", http.MethodGet, "/oauth/login")
			},
		},
		&cobra.Command{
			Use:   "user <user_id>",
			Short: "Muestra la identidad guardada de un usuario",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return cl.call("user", http.MethodGet, userPath("/user/", args[0]))
			},
		},
		&cobra.Command{
			Use:   "logout <user_id>",
			Short: "Elimina la credencial de un usuario",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return cl.call("logout", http.MethodDelete, userPath("/oauth/logout/", args[0]))
			},
		},
		newRecordingsCmd(cl),
	)
	return root
}

func newRecordingsCmd(cl *client) *cobra.Command {
	var from, to string
	var pageSize int
	cmd := &cobra.Command{
		Use:   "recordings <user_id>",
		Short: "Lista las grabaciones de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.call("recordings", http.MethodGet, recordingsPath(args[0], from, to, pageSize))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Fecha desde (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Fecha hasta (YYYY-MM-DD)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Tamaño de página (1..300)")
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
