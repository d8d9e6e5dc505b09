package seed

type catalogItem struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description string
	ImageURL    string
}

var catalog = []catalogItem{
	{"Rasgulla", "Bengali Sweets", 320, 50, "Soft spongy cheese balls soaked in light sugar syrup, a Bengali delicacy", "/rasgulla.jpg"},
	{"Barfi Roll", "Barfi", 450, 40, "Premium spiral barfi rolls with rose and pista flavors, festive special", "/barfi-roll.jpg"},
	{"Fresh Jalebi", "Crispy Sweets", 280, 60, "Crispy golden spirals dipped in warm sugar syrup, best served hot", "/jalebi-fresh.jpg"},
	{"Peda", "Milk Sweets", 380, 45, "Traditional milk peda topped with pistachio, Mathura style", "/peda.png"},
	{"Balushahi", "Fried Sweets", 350, 35, "Flaky deep-fried pastry glazed with sugar syrup", "/balushahi-new.jpg"},
	{"Gulab Jamun", "Milk Sweets", 340, 55, "Soft milk dumplings soaked in rose-flavored cardamom sugar syrup", "/gulab-jamun.jpg"},
	{"Gujiya", "Traditional", 420, 40, "Crispy fried pastry filled with sweet khoya and dry fruits, Holi special", "/gujiya.jpg"},
	{"Premium Barfi Mix", "Barfi", 580, 30, "Assorted barfi platter with kaju, mango, besan and coconut varieties", "/premium-barfi.jpg"},
	{"Imarti", "Crispy Sweets", 300, 45, "Flower-shaped crispy urad dal sweet dipped in saffron sugar syrup", "/imarti.jpg"},
}
