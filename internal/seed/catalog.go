package seed

type productSeed struct {
	Name  string
	Price int64
	Stock int
	Unit  string
}

type categorySeed struct {
	Name     string
	Products []productSeed
}

// Grocery catalogue used for demo data. Some stock levels are deliberately below
// the low stock threshold.
var groceryCatalog = []categorySeed{
	{Name: "Sayur & Buah", Products: []productSeed{
		{"Bayam Hijau", 5000, 120, "ikat"},
		{"Wortel Lokal", 14000, 80, "kg"},
		{"Tomat Merah", 12000, 6, "kg"},
		{"Pisang Cavendish", 28000, 45, "sisir"},
		{"Apel Fuji", 42000, 30, "kg"},
	}},
	{Name: "Daging & Ikan", Products: []productSeed{
		{"Dada Ayam Fillet", 55000, 40, "kg"},
		{"Daging Sapi Has Dalam", 145000, 8, "kg"},
		{"Ikan Salmon Fillet", 98000, 15, "250 g"},
		{"Udang Vaname", 85000, 3, "500 g"},
	}},
	{Name: "Susu & Telur", Products: []productSeed{
		{"Telur Ayam Negeri", 29000, 200, "kg"},
		{"Susu UHT Full Cream", 19500, 150, "1 L"},
		{"Keju Cheddar", 24000, 9, "165 g"},
		{"Yoghurt Plain", 17000, 35, "500 ml"},
	}},
	{Name: "Bumbu Dapur", Products: []productSeed{
		{"Bawang Merah", 38000, 60, "kg"},
		{"Bawang Putih", 36000, 55, "kg"},
		{"Cabai Rawit", 60000, 4, "kg"},
		{"Minyak Goreng", 18500, 90, "1 L"},
		{"Gula Pasir", 16500, 110, "kg"},
	}},
	{Name: "Minuman", Products: []productSeed{
		{"Air Mineral", 4000, 300, "600 ml"},
		{"Teh Celup Melati", 7500, 140, "25 pcs"},
		{"Kopi Bubuk Robusta", 32000, 25, "250 g"},
	}},
	{Name: "Beras & Makanan Pokok", Products: []productSeed{
		{"Beras Pandan Wangi", 75000, 70, "5 kg"},
		{"Mi Instan Goreng", 3500, 500, "pcs"},
		{"Tepung Terigu", 13000, 2, "kg"},
	}},
}

var (
	firstNames = []string{"Andi", "Budi", "Citra", "Dewi", "Eko", "Fitri", "Gilang", "Hana", "Indra", "Joko", "Kartika", "Lestari", "Maya", "Nanda", "Putri", "Rizky", "Sari", "Taufik", "Wulan", "Yusuf"}
	lastNames  = []string{"Saputra", "Wijaya", "Lestari", "Pratama", "Hidayat", "Kusuma", "Santoso", "Nugroho", "Permata", "Halim"}
	cities     = []string{"Jakarta Selatan", "Bandung", "Surabaya", "Yogyakarta", "Semarang", "Denpasar", "Medan", "Makassar"}
	streets    = []string{"Jl. Melati", "Jl. Kenanga", "Jl. Sudirman", "Jl. Diponegoro", "Jl. Gatot Subroto", "Jl. Merdeka"}
	couriers   = []string{"JNE", "JNT", "SCP", "POS"}
)
