package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"grocery-admin/internal/adminclient"
	"grocery-admin/internal/config"
	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

var errUsage = errors.New("argumen tidak lengkap, jalankan adminctl help")

type app struct {
	cfg     *config.Client
	api     *adminclient.Client
	confirm adminclient.Confirmer
	notify  adminclient.Notifier
	out     io.Writer

	// one page, one pending mutation
	guard adminclient.Guard
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email admin")
	password := fs.String("password", "", "kata sandi")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		return errUsage
	}
	res, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.cfg.SaveToken(res.Token); err != nil {
		return err
	}
	a.notify.Notify(dto.Success(fmt.Sprintf("Masuk sebagai %s (%s)", res.Name, res.Role)))
	return nil
}

// listPaths maps the -page flag to the order list endpoints.
var listPaths = map[string]string{
	"all":       "/admin/orders",
	"completed": "/admin/orders/completed",
	"shipped":   "/admin/orders/shipped",
}

func orderListPath(page string) (string, error) {
	if p, ok := listPaths[page]; ok {
		return p, nil
	}
	if _, ok := model.ParseStatus(page); ok {
		return "/admin/orders/status/" + page, nil
	}
	return "", fmt.Errorf("halaman %q tidak dikenal", page)
}

func (a *app) orders(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.ordersList(ctx, rest)
	case "show":
		id, err := idArg(rest, 0)
		if err != nil {
			return err
		}
		return a.ordersShow(ctx, id)
	case "track":
		id, err := idArg(rest, 0)
		if err != nil {
			return err
		}
		if len(rest) < 2 {
			return errUsage
		}
		_, flash, err := a.api.UpdateTracking(ctx, id, rest[1])
		if err != nil {
			return err
		}
		a.notify.Notify(flash)
		return nil
	case "delete":
		id, err := idArg(rest, 0)
		if err != nil {
			return err
		}
		if !a.confirm.Confirm(ctx, fmt.Sprintf("Hapus pesanan #%d? Tindakan ini tidak dapat dibatalkan.", id)) {
			return nil
		}
		flash, err := a.api.DeleteOrder(ctx, id)
		if err != nil {
			return err
		}
		a.notify.Notify(flash)
		return nil
	case "bulk":
		return a.ordersBulk(ctx, rest)
	}

	if _, ok := model.LookupAction(sub); ok {
		id, err := idArg(rest, 0)
		if err != nil {
			return err
		}
		view, err := a.api.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		d := adminclient.NewDispatcher(a.api, a.confirm, a.notify, &a.guard)
		_, err = d.Dispatch(ctx, *view, sub)
		if errors.Is(err, adminclient.ErrIllegalTransition) {
			return nil
		}
		return err
	}
	return errUsage
}

func (a *app) ordersList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders list", flag.ExitOnError)
	page := fs.String("page", "all", "all, completed, shipped atau nama status")
	q := dto.OrderQuery{}
	fs.IntVar(&q.Page, "p", 1, "nomor halaman")
	fs.IntVar(&q.PerPage, "per-page", 0, "jumlah baris per halaman")
	fs.StringVar(&q.Search, "search", "", "nomor pesanan, nama, email atau resi")
	fs.StringVar(&q.Status, "status", "", "filter status (halaman all)")
	fs.StringVar(&q.DateFrom, "from", "", "tanggal awal YYYY-MM-DD")
	fs.StringVar(&q.DateTo, "to", "", "tanggal akhir YYYY-MM-DD")
	fs.StringVar(&q.AmountRange, "amount", "", "rentang total, contoh 50000-200000")
	fs.StringVar(&q.TrackingNumber, "tracking", "", "nomor resi")
	_ = fs.Parse(args)

	path, err := orderListPath(*page)
	if err != nil {
		return err
	}
	view := adminclient.NewListView(a.api, path, a.notify)
	view.Query = q
	if err := view.Load(ctx); err != nil {
		return err
	}
	if view.Empty() {
		fmt.Fprintln(a.out, view.EmptyMessage())
		return nil
	}

	table := tablewriter.NewWriter(a.out)
	table.Header("ID", "Nomor", "Pelanggan", "Status", "Total", "Resi", "Dibuat", "Aksi")
	for _, o := range view.Rows() {
		row := []string{
			strconv.FormatInt(o.ID, 10),
			o.OrderNumber,
			o.CustomerName,
			o.Badge.Label,
			o.TotalAmount.StringFixed(2),
			o.TrackingNumber,
			o.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprint(view.RowActions(o)),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	m := view.Page.Meta
	fmt.Fprintf(a.out, "Menampilkan %d-%d dari %d pesanan (halaman %d/%d)\n", m.From, m.To, m.Total, m.CurrentPage, m.LastPage)
	return nil
}

func (a *app) ordersShow(ctx context.Context, id int64) error {
	o, err := a.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s  [%s]\n", o.OrderNumber, o.CustomerName, o.Badge.Label)
	fmt.Fprintf(a.out, "Alamat: %s\n", o.ShippingAddress)

	items := tablewriter.NewWriter(a.out)
	items.Header("Produk", "Jumlah", "Harga", "Subtotal")
	for _, it := range o.Items {
		if err := items.Append([]string{it.ProductName, strconv.Itoa(it.Quantity), it.Price.StringFixed(2), it.Subtotal().StringFixed(2)}); err != nil {
			return err
		}
	}
	if err := items.Render(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ongkir %s  Pajak %s  Total %s\n", o.ShippingCost.StringFixed(2), o.TaxAmount.StringFixed(2), o.TotalAmount.StringFixed(2))

	history := tablewriter.NewWriter(a.out)
	history.Header("Waktu", "Status", "Catatan", "Oleh", "")
	for _, h := range o.History {
		cur := ""
		if h.Current {
			cur = "*"
		}
		if err := history.Append([]string{h.Timestamp.Format("2006-01-02 15:04"), model.Badge(h.Status).Label, h.Notes, strconv.FormatInt(h.ActorID, 10), cur}); err != nil {
			return err
		}
	}
	return history.Render()
}

func (a *app) ordersBulk(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders bulk", flag.ExitOnError)
	action := fs.String("action", "", "approve_all, reject_all, ship_all, cancel_all, complete_all, update_status, delete, generate_invoices, export")
	status := fs.String("status", "", "status tujuan untuk update_status")
	_ = fs.Parse(args)
	ids, err := idsArg(fs.Args())
	if err != nil {
		return err
	}

	sel := adminclient.NewSelection()
	sel.SetPage(ids)
	sel.ToggleAll()
	b := adminclient.NewBulkCoordinator(adminclient.OrderBulk(a.api), a.confirm, a.notify, &a.guard, sel, "pesanan")
	b.Choose(*action, *status)
	if !b.CanExecute() {
		return errUsage
	}
	res, err := b.Execute(ctx)
	if err != nil || res == nil {
		return err
	}
	return a.printBulk(ctx, res)
}

func (a *app) users(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("users list", flag.ExitOnError)
		customers := fs.Bool("customers", false, "hanya pelanggan")
		q := dto.UserQuery{}
		fs.IntVar(&q.Page, "p", 1, "nomor halaman")
		fs.IntVar(&q.PerPage, "per-page", 0, "jumlah baris per halaman")
		fs.StringVar(&q.Search, "search", "", "nama atau email")
		fs.StringVar(&q.Role, "role", "", "admin atau buyer")
		fs.StringVar(&q.Active, "active", "", "true atau false")
		_ = fs.Parse(args[1:])

		path := "/admin/users"
		if *customers {
			path = "/admin/customers"
		}
		page, err := a.api.ListUsers(ctx, path, q)
		if err != nil {
			return err
		}
		if len(page.Data) == 0 {
			fmt.Fprintln(a.out, "Tidak ada pengguna")
			return nil
		}
		table := tablewriter.NewWriter(a.out)
		table.Header("ID", "Nama", "Email", "Role", "Aktif", "Pesanan", "Belanja")
		for _, u := range page.Data {
			if err := table.Append([]string{
				strconv.FormatInt(u.ID, 10), u.Name, u.Email, u.Role,
				strconv.FormatBool(u.Active), strconv.FormatInt(u.OrdersCount, 10), u.TotalSpent.StringFixed(2),
			}); err != nil {
				return err
			}
		}
		return table.Render()

	case "bulk":
		fs := flag.NewFlagSet("users bulk", flag.ExitOnError)
		action := fs.String("action", "", "activate, deactivate, delete atau export")
		_ = fs.Parse(args[1:])
		ids, err := idsArg(fs.Args())
		if err != nil {
			return err
		}
		sel := adminclient.NewSelection()
		sel.SetPage(ids)
		sel.ToggleAll()
		b := adminclient.NewBulkCoordinator(adminclient.UserBulk(a.api), a.confirm, a.notify, &a.guard, sel, "pengguna")
		b.Choose(*action, "")
		if !b.CanExecute() {
			return errUsage
		}
		res, err := b.Execute(ctx)
		if err != nil || res == nil {
			return err
		}
		return a.printBulk(ctx, res)
	}
	return errUsage
}

func (a *app) printBulk(ctx context.Context, res *dto.BulkResult) error {
	for _, f := range res.Failed {
		fmt.Fprintf(a.out, "  #%d: %s\n", f.ID, f.Error)
	}
	if res.DownloadURL != "" {
		body, err := a.api.Download(ctx, res.DownloadURL)
		if err != nil {
			return err
		}
		_, err = a.out.Write(body)
		return err
	}
	return nil
}

func (a *app) reports(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	q := dto.ReportQuery{}
	fs.StringVar(&q.DateFrom, "from", "", "tanggal awal YYYY-MM-DD")
	fs.StringVar(&q.DateTo, "to", "", "tanggal akhir YYYY-MM-DD")
	fs.IntVar(&q.Limit, "limit", 0, "jumlah baris teratas")
	_ = fs.Parse(args[1:])

	var data map[string]any
	if err := a.api.Report(ctx, args[0], q, &data); err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (a *app) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	body, err := a.api.Download(ctx, args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return os.WriteFile(args[1], body, 0o644)
	}
	_, err = a.out.Write(body)
	return err
}

func idArg(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id tidak valid: %q", args[i])
	}
	return id, nil
}

func idsArg(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	return dto.ParseIDList(args[0])
}
