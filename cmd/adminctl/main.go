// Command adminctl drives the admin API from a terminal.
//
//	adminctl login -email admin@grocery.local -password password123
//	adminctl orders list -page pending -search budi
//	adminctl orders approve 12
//	adminctl orders bulk -action complete_all 4,5,6
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"grocery-admin/internal/adminclient"
	"grocery-admin/internal/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: adminctl <command> [flags]

commands:
  login                      masuk dan simpan token
  orders list                tampilkan daftar pesanan
  orders show <id>           detail dan riwayat status pesanan
  orders <aksi> <id>         approve | reject | ship | cancel | complete
  orders track <id> <resi>   simpan nomor resi
  orders delete <id>         hapus pesanan yang dibatalkan
  orders bulk <ids>          aksi massal, contoh: -action approve_all 1,2,3
  users list                 tampilkan daftar pengguna
  users bulk <ids>           activate | deactivate | delete | export
  reports <nama>             sales | products | customers | financial
  export <path>              unduh CSV, contoh: /admin/orders/export?status=pending`)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal(err)
	}
	token, err := cfg.ResolveToken()
	if err != nil {
		log.Fatal(err)
	}
	api := adminclient.New(cfg.URL)
	api.Token = token

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{
		cfg:     cfg,
		api:     api,
		confirm: adminclient.NewPromptConfirmer(os.Stdin, os.Stdout),
		notify:  adminclient.WriterNotifier{W: os.Stdout},
		out:     os.Stdout,
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "login":
		err = app.login(ctx, args)
	case "orders":
		err = app.orders(ctx, args)
	case "users":
		err = app.users(ctx, args)
	case "reports":
		err = app.reports(ctx, args)
	case "export":
		err = app.export(ctx, args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		var apiErr *adminclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			log.Fatalf("sesi tidak valid, jalankan \"adminctl login\" terlebih dahulu (%v)", err)
		}
		log.Fatal(err)
	}
}
