// Command portal is a minimal terminal front end for the job catalog: it
// renders the current page and forwards user intents to the session layer.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/honeycarbs/empleos/internal/catalog"
	"github.com/honeycarbs/empleos/internal/config"
	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/internal/session"
	"github.com/honeycarbs/empleos/pkg/logging"
	"github.com/honeycarbs/empleos/pkg/portalapi"
	"github.com/honeycarbs/empleos/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	client, err := portalapi.NewClient(portalapi.Config{
		BaseURL: cfg.BaseURL,
		Logger:  logger.Named("portalapi"),
	})
	if err != nil {
		logger.Error("failed to build catalog client", "err", err)
		os.Exit(1)
	}

	cat, err := catalog.New(client)
	if err != nil {
		logger.Error("failed to build catalog adapter", "err", err)
		os.Exit(1)
	}

	sess, err := session.NewWithDeps(cat, logger.Named("session"), cfg.PageSize)
	if err != nil {
		logger.Error("failed to build session", "err", err)
		os.Exit(1)
	}

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM},
		sess,
		5*time.Second,
		logger,
	)

	ctx := context.Background()
	logger.Info("portal starting", "base_url", cfg.BaseURL)

	if err := sess.Start(ctx); err != nil {
		fmt.Printf("initial load failed: %v (use 'retry')\n", err)
	}
	printPage(sess)

	repl(ctx, sess)

	_ = sess.Shutdown(ctx)
}

func repl(ctx context.Context, sess *session.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`commands: search <text> | min <n> | max <n> | company <id> | sort <key> <ASC|DESC>
          go | clear | page <n> | open <job-id> | empresa | pick <job-id> | back | retry | login | quit`)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return

		case "search":
			sess.SetTitle(strings.Join(args, " "))
			// Give the debounce a moment to settle before rendering.
			time.Sleep(700 * time.Millisecond)
			printPage(sess)

		case "min":
			if v, err := parseFloat(args); err == nil {
				sess.SetSalaryMin(v)
			} else {
				fmt.Println(err)
			}

		case "max":
			if v, err := parseFloat(args); err == nil {
				sess.SetSalaryMax(v)
			} else {
				fmt.Println(err)
			}

		case "company":
			if v, err := parseID(args); err == nil {
				sess.SetCompanyID(v)
			} else {
				fmt.Println(err)
			}

		case "sort":
			if len(args) != 2 {
				fmt.Println("usage: sort <fecha_publicacion|salario|titulo> <ASC|DESC>")
				continue
			}
			sess.SetSort(domain.SortKey(args[0]), domain.SortDirection(strings.ToUpper(args[1])))

		case "go":
			sess.Search()
			printPage(sess)

		case "clear":
			sess.Clear()
			printPage(sess)

		case "page":
			v, err := parseID(args)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := sess.PageChange(ctx, int(v)); err != nil {
				fmt.Printf("page change failed: %v\n", err)
				continue
			}
			printPage(sess)

		case "open":
			v, err := parseID(args)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := sess.OpenJob(v); err != nil {
				fmt.Println(err)
				continue
			}
			printJob(sess)

		case "empresa":
			if err := sess.OpenCompany(ctx); err != nil {
				fmt.Printf("cannot open company view: %v\n", err)
				continue
			}
			printCompany(sess)

		case "pick":
			v, err := parseID(args)
			if err != nil {
				fmt.Println(err)
				continue
			}
			job, err := sess.SelectJobFromCompany(ctx, v)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("viewing %q @ %s\n", job.Title, job.CompanyName)

		case "back":
			sess.CloseDetails()
			printPage(sess)

		case "retry":
			if err := sess.Retry(ctx); err != nil {
				fmt.Printf("retry failed: %v\n", err)
				continue
			}
			printPage(sess)

		case "login":
			fmt.Printf("logged in: %v\n", sess.ToggleLogin())

		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func printPage(sess *session.Session) {
	if err := sess.Err(); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	jobs := sess.Jobs()
	p := sess.Pagination()
	if len(jobs) == 0 {
		fmt.Println("no jobs found")
		return
	}

	for _, j := range jobs {
		salary := "n/a"
		if j.Salary != nil {
			salary = strconv.FormatFloat(*j.Salary, 'f', 0, 64)
		}
		fmt.Printf("  [%d] %-40s %-25s %s\n", j.ID, j.Title, j.CompanyName, salary)
	}
	fmt.Printf("page %d/%d (%d jobs)\n", p.CurrentPage, p.TotalPages, p.Total)
}

func printJob(sess *session.Session) {
	job, ok := sess.Navigator().Job()
	if !ok {
		fmt.Println("no job open")
		return
	}
	fmt.Printf("%s @ %s\n", job.Title, job.CompanyName)
	if job.Location != "" {
		fmt.Printf("  location: %s\n", job.Location)
	}
	if job.ContractType != "" {
		fmt.Printf("  contract: %s\n", job.ContractType)
	}
	if job.Modality != "" {
		fmt.Printf("  modality: %s\n", job.Modality)
	}
	if job.Description != "" {
		fmt.Printf("  %s\n", job.Description)
	}
}

func printCompany(sess *session.Session) {
	company, ok := sess.Navigator().Company()
	if !ok {
		if err := sess.Navigator().CompanyErr(); err != nil {
			fmt.Printf("company fetch failed: %v\n", err)
		}
		return
	}
	fmt.Printf("%s (%d jobs listed)\n", company.Name, len(company.Jobs))
	for _, j := range company.Jobs {
		fmt.Printf("  [%d] %s\n", j.ID, j.Title)
	}
}

func parseFloat(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one numeric argument")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[0])
	}
	return v, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one integer argument")
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", args[0])
	}
	return v, nil
}
