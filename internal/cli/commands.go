package cli

import (
	"bytes"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fsdevblog/shortlinks/internal/models"
	"github.com/fsdevblog/shortlinks/internal/services"
)

const timeLayout = "2006-01-02 15:04:05"

func newCreateCmd(f *storageFlags) *cobra.Command {
	var validity, shortcode string
	cmd := &cobra.Command{
		Use:   "create URL",
		Short: "Создает короткую ссылку",
		Example: `  shortctl create https://example.com --validity 15
  shortctl create https://example.com --shortcode promo`,
		Args: cobra.ExactArgs(1),
		RunE: f.withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
			link, err := rt.services.Registry.Create(cmd.Context(), services.CreateRequest{
				LongURL:   args[0],
				Validity:  validity,
				Shortcode: shortcode,
			})
			if err != nil {
				return err //nolint:wrapcheck
			}
			printCreated(cmd, rt, []models.ShortLink{*link})
			return nil
		}),
	}
	cmd.Flags().StringVar(&validity, "validity", "", "срок жизни в минутах")
	cmd.Flags().StringVar(&shortcode, "shortcode", "", "желаемый код (3-15 латинских букв или цифр)")
	return cmd
}

// batchRow строка файла пакета. validity может быть числом или строкой.
type batchRow struct {
	URL       string          `json:"url"`
	Validity  json.RawMessage `json:"validity"`
	Shortcode string          `json:"shortcode"`
}

func (r batchRow) validity() (string, error) {
	raw := bytes.TrimSpace(r.Validity)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(err, "decode validity")
		}
		return s, nil
	}
	return string(raw), nil
}

func newBatchCmd(f *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Создает пакет ссылок из JSON файла (все или ничего)",
		Long: `Файл содержит массив строк вида {"url": "...", "validity": 15, "shortcode": "abc"}.
Если хотя бы одна строка невалидна, не создается ни одной ссылки.`,
		Args: cobra.ExactArgs(1),
		RunE: f.withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read batch file %s", args[0])
			}
			var rows []batchRow
			if err := json.Unmarshal(data, &rows); err != nil {
				return errors.Wrapf(err, "decode batch file %s", args[0])
			}

			reqs := make([]services.CreateRequest, len(rows))
			for i, row := range rows {
				validity, vErr := row.validity()
				if vErr != nil {
					return &services.RowError{Row: i + 1, Err: vErr}
				}
				reqs[i] = services.CreateRequest{LongURL: row.URL, Validity: validity, Shortcode: row.Shortcode}
			}

			links, err := rt.services.Registry.CreateBatch(cmd.Context(), reqs)
			if err != nil {
				return err //nolint:wrapcheck
			}
			printCreated(cmd, rt, links)
			return nil
		}),
	}
}

func newListCmd(f *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показывает все ссылки, новые первыми",
		Args:  cobra.NoArgs,
		RunE: f.withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			fmt.Fprintln(w, "SHORT URL\tURL\tEXPIRES\tSTATUS")
			for _, link := range rt.services.Registry.List(cmd.Context()) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rt.shortURL(link.Shortcode), link.LongURL,
					link.ExpireAt.Local().Format(timeLayout), status(link, now))
			}
			return w.Flush() //nolint:wrapcheck
		}),
	}
}

func newStatsCmd(f *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [CODE]",
		Short: "Статистика переходов по всем ссылкам или по одной",
		Args:  cobra.MaximumNArgs(1),
		RunE: f.withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
			now := time.Now()
			if len(args) == 1 {
				link, err := rt.services.Registry.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err //nolint:wrapcheck
				}
				printStats(cmd, rt, *link, now)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			fmt.Fprintln(w, "SHORT URL\tCREATED\tEXPIRES\tSTATUS\tCLICKS")
			for _, link := range rt.services.Registry.List(cmd.Context()) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					rt.shortURL(link.Shortcode),
					link.CreatedAt.Local().Format(timeLayout),
					link.ExpireAt.Local().Format(timeLayout),
					status(link, now), len(link.Clicks))
			}
			return w.Flush() //nolint:wrapcheck
		}),
	}
}

func newResolveCmd(f *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CODE",
		Short: "Показывает длинный URL живой ссылки (клик не записывается)",
		Args:  cobra.ExactArgs(1),
		RunE: f.withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
			link, err := rt.services.Registry.ResolveLive(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}
			fmt.Fprintln(cmd.OutOrStdout(), link.LongURL)
			return nil
		}),
	}
}

func newEventsCmd(f *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Диагностический журнал событий, новые первыми",
		Args:  cobra.NoArgs,
		RunE: f.withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			fmt.Fprintln(w, "TIME\tEVENT\tPAYLOAD")
			for _, ev := range rt.services.Events.List(cmd.Context()) {
				payload, _ := json.Marshal(ev.Payload)
				fmt.Fprintf(w, "%s\t%s\t%s\n", ev.Timestamp.Local().Format(timeLayout), ev.Event, payload)
			}
			return w.Flush() //nolint:wrapcheck
		}),
	}
}

func printCreated(cmd *cobra.Command, rt *runtime, links []models.ShortLink) {
	out := cmd.OutOrStdout()
	for _, link := range links {
		fmt.Fprintf(out, "%s -> %s (expires %s)\n",
			rt.shortURL(link.Shortcode), link.LongURL, link.ExpireAt.Local().Format(timeLayout))
	}
}

func printStats(cmd *cobra.Command, rt *runtime, link models.ShortLink, now time.Time) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Short URL: %s\n", rt.shortURL(link.Shortcode))
	fmt.Fprintf(out, "URL: %s\n", link.LongURL)
	fmt.Fprintf(out, "Created: %s\n", link.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(out, "Expires: %s (%s)\n", link.ExpireAt.Local().Format(timeLayout), status(link, now))
	fmt.Fprintf(out, "Clicks: %d\n", len(link.Clicks))
	for _, click := range link.Clicks {
		fmt.Fprintf(out, "  %s  %s  %s\n", click.Timestamp.Local().Format(timeLayout), click.Locale, click.Timezone)
	}
}

func status(link models.ShortLink, now time.Time) string {
	if link.IsLive(now) {
		return "live"
	}
	return "expired"
}
