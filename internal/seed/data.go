package seed

type cityData struct {
	City      string
	Districts []string
}

var cities = []cityData{
	{"Hồ Chí Minh", []string{"Quận 1", "Quận 3", "Quận 7", "Bình Thạnh", "Phú Nhuận", "Tân Bình", "Gò Vấp", "Thủ Đức"}},
	{"Hà Nội", []string{"Ba Đình", "Hoàn Kiếm", "Đống Đa", "Cầu Giấy", "Hai Bà Trưng", "Thanh Xuân", "Long Biên", "Nam Từ Liêm"}},
	{"Đà Nẵng", []string{"Hải Châu", "Thanh Khê", "Sơn Trà", "Ngũ Hành Sơn", "Liên Chiểu", "Cẩm Lệ"}},
}

var wards = []string{
	"Phường 1", "Phường 2", "Phường 3", "Phường 4", "Phường 5", "Phường 6", "Phường 7",
	"Phường 8", "Phường 9", "Phường 10", "Phường An Phú", "Phường Bình An", "Phường Thảo Điền",
}

var streets = []string{
	"Nguyễn Huệ", "Lê Lợi", "Trần Hưng Đạo", "Hai Bà Trưng", "Lý Tự Trọng", "Nguyễn Trãi",
	"Điện Biên Phủ", "Võ Văn Tần", "Pasteur", "Nam Kỳ Khởi Nghĩa", "Lê Văn Sỹ",
	"Nguyễn Đình Chiểu", "Cách Mạng Tháng 8", "Phan Xích Long", "Hoàng Văn Thụ",
	"Nguyễn Văn Trỗi", "Phan Đăng Lưu", "Xô Viết Nghệ Tĩnh",
}

var firstNames = []string{
	"Anh", "Bình", "Chi", "Dũng", "Em", "Hải", "Hạnh", "Hiền", "Hoa", "Hùng", "Hương", "Khoa",
	"Lan", "Linh", "Long", "Mai", "Minh", "Nam", "Ngọc", "Nhung", "Phong", "Phương", "Quang",
	"Quyên", "Sơn", "Tâm", "Thảo", "Thành", "Thiên", "Thu", "Thúy", "Tiến", "Trang", "Trung",
	"Tuấn", "Tuyết", "Uyên", "Văn", "Vinh", "Yến",
}

var lastNames = []string{
	"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ", "Võ", "Đặng", "Bùi", "Đỗ",
	"Hồ", "Ngô", "Dương", "Lý", "Đinh", "Lương", "Trịnh", "Mai",
}

var vendorNames = []string{
	"Tạp Hóa", "Cửa Hàng Tiện Lợi", "Siêu Thị Mini", "Bách Hóa", "Cửa Hàng Thực Phẩm",
	"Rau Sạch", "Đồ Khô", "Thực Phẩm Sạch", "Hàng Việt", "Nông Sản Sạch",
}

var vendorSuffixes = []string{
	"Nhà Bé", "Anh Hai", "Chị Ba", "Cô Tư", "Bác Năm", "Anh Sáu", "Út Hậu", "Bà Tám", "Cô Chín", "Chú Mười",
}

var phonePrefixes = []string{
	"090", "091", "093", "094", "096", "097", "098", "032", "033", "034", "035", "036", "037", "038", "039",
}

var orderNotes = []string{"Gọi trước khi giao", "Để trước cửa", "Giao giờ trưa", "Không cần túi nhựa"}

type productData struct {
	NameVI, NameEN, Unit string
	Min, Max            int64
}

type categoryData struct {
	NameVI, NameEN, Slug, Icon string
	Products                   []productData
}

var categoryTable = []categoryData{
	{"Rau củ quả", "Vegetables & Fruits", "rau-cu-qua", "🥬", []productData{
		{"Rau muống", "Water spinach", "bó", 8000, 15000},
		{"Cải thìa", "Bok choy", "kg", 20000, 35000},
		{"Cà chua", "Tomatoes", "kg", 15000, 30000},
		{"Dưa leo", "Cucumber", "kg", 12000, 25000},
		{"Cà rốt", "Carrots", "kg", 18000, 30000},
		{"Khoai tây", "Potatoes", "kg", 20000, 35000},
		{"Hành tây", "Onion", "kg", 15000, 30000},
		{"Tỏi", "Garlic", "kg", 50000, 80000},
		{"Ớt", "Chili", "kg", 30000, 60000},
		{"Bắp cải", "Cabbage", "kg", 10000, 20000},
	}},
	{"Thịt tươi", "Fresh Meat", "thit-tuoi", "🥩", []productData{
		{"Thịt heo ba chỉ", "Pork belly", "kg", 120000, 180000},
		{"Thịt heo nạc vai", "Pork shoulder", "kg", 100000, 150000},
		{"Sườn heo", "Pork ribs", "kg", 130000, 180000},
		{"Thịt bò", "Beef", "kg", 250000, 400000},
		{"Thịt gà ta", "Free-range chicken", "kg", 100000, 150000},
		{"Đùi gà", "Chicken thigh", "kg", 80000, 120000},
	}},
	{"Hải sản", "Seafood", "hai-san", "🦐", []productData{
		{"Cá basa", "Basa fish", "kg", 50000, 80000},
		{"Tôm sú", "Tiger shrimp", "kg", 200000, 350000},
		{"Mực", "Squid", "kg", 150000, 250000},
		{"Cua", "Crab", "kg", 250000, 400000},
		{"Nghêu", "Clams", "kg", 40000, 70000},
	}},
	{"Sữa & Trứng", "Dairy & Eggs", "sua-trung", "🥛", []productData{
		{"Sữa tươi Vinamilk", "Vinamilk fresh milk", "hộp", 30000, 45000},
		{"Sữa đặc Ông Thọ", "Ong Tho condensed milk", "hộp", 25000, 35000},
		{"Trứng gà ta", "Free-range eggs", "vỉ 10", 35000, 50000},
		{"Trứng vịt", "Duck eggs", "vỉ 10", 40000, 55000},
		{"Phô mai con bò cười", "Laughing Cow cheese", "hộp", 35000, 50000},
	}},
	{"Gạo & Bột", "Rice & Flour", "gao-bot", "🍚", []productData{
		{"Gạo ST25", "ST25 rice", "kg", 25000, 40000},
		{"Gạo Jasmine", "Jasmine rice", "kg", 18000, 30000},
		{"Bột mì đa dụng", "All-purpose flour", "kg", 20000, 35000},
		{"Bột gạo", "Rice flour", "kg", 25000, 40000},
		{"Bún khô", "Dried rice vermicelli", "gói", 15000, 25000},
		{"Phở khô", "Dried pho noodles", "gói", 20000, 35000},
	}},
	{"Gia vị", "Seasonings", "gia-vi", "🧂", []productData{
		{"Nước mắm Phú Quốc", "Phu Quoc fish sauce", "chai", 30000, 60000},
		{"Nước tương Maggi", "Maggi soy sauce", "chai", 15000, 25000},
		{"Dầu ăn Tường An", "Tuong An cooking oil", "lít", 35000, 50000},
		{"Muối iốt", "Iodized salt", "gói", 5000, 10000},
		{"Đường trắng", "White sugar", "kg", 20000, 30000},
		{"Bột ngọt Ajinomoto", "Ajinomoto MSG", "gói", 10000, 20000},
		{"Hạt nêm Knorr", "Knorr seasoning", "gói", 15000, 30000},
	}},
	{"Đồ uống", "Beverages", "do-uong", "🥤", []productData{
		{"Trà xanh Không Độ", "Zero Degree green tea", "chai", 8000, 12000},
		{"Cà phê G7", "G7 coffee", "hộp", 50000, 80000},
		{"Nước suối Aquafina", "Aquafina water", "thùng", 70000, 100000},
		{"Coca Cola", "Coca Cola", "lốc 6", 50000, 70000},
		{"Bia Saigon", "Saigon beer", "thùng", 280000, 350000},
	}},
	{"Đồ khô & Đóng hộp", "Dry Goods & Canned", "do-kho", "🥫", []productData{
		{"Mì gói Hảo Hảo", "Hao Hao instant noodles", "thùng", 80000, 120000},
		{"Cá hộp 3 Cô Gái", "Three Ladies canned fish", "hộp", 20000, 35000},
		{"Thịt hộp", "Canned meat", "hộp", 30000, 50000},
		{"Đậu phộng rang", "Roasted peanuts", "gói", 25000, 40000},
		{"Bánh tráng", "Rice paper", "gói", 15000, 25000},
	}},
}
