package dataset

type scored struct {
	name  string
	score int
}

var firstNames = []string{
	"Aarav", "Aditi", "Arjun", "Ananya", "Ishaan", "Kavya", "Rohan", "Priya",
	"Vivaan", "Diya", "Aditya", "Siya", "Karan", "Riya", "Vihaan", "Asha",
	"Aryan", "Meera", "Reyansh", "Tara", "Ayaan", "Neha", "Rudra", "Pooja",
	"Shivansh", "Shreya", "Arnav", "Khushi", "Kabir", "Nisha", "Devansh", "Ritika",
	"Atharv", "Sakshi", "Hriday", "Bhavya", "Advait", "Tanvi", "Pranav", "Simran",
	"Samarth", "Avni", "Parth", "Janvi", "Dhruv", "Kiara", "Vedant", "Myra",
	"Anirudh", "Anika", "Shaurya", "Palak", "Krish", "Dia", "Yash", "Ira",
	"Harsh", "Zara", "Nikhil", "Manya", "Raghav", "Mahika", "Siddharth", "Sejal",
}

var lastNames = []string{
	"Sharma", "Gupta", "Singh", "Kumar", "Patel", "Shah", "Agarwal", "Bansal",
	"Jain", "Mittal", "Agrawal", "Chopra", "Malhotra", "Arora", "Kapoor", "Mehta",
	"Verma", "Pandey", "Saxena", "Goyal", "Sinha", "Yadav", "Mishra", "Tiwari",
	"Bhardwaj", "Kashyap", "Srivastava", "Chandra", "Bhatia", "Khanna", "Tandon", "Sethi",
}

var previousSchools = []string{
	"Delhi Public School", "Kendriya Vidyalaya", "Ryan International", "DAV Public School",
	"St. Mary's Convent", "Holy Child School", "Modern School", "Bal Bharati Public School",
	"Cambridge School", "Springdales School", "Amity International", "Gyan Bharati School",
	"Little Angels School", "St. Xavier's School", "Mount Carmel School", "Sacred Heart School",
	"Bharatiya Vidya Bhavan", "Lotus Valley School", "Heritage School", "Birla Public School",
}

var locations = []scored{
	{"Connaught Place", 95}, {"Karol Bagh", 85}, {"Lajpat Nagar", 80}, {"Rajouri Garden", 75},
	{"Dwarka", 70}, {"Rohini", 65}, {"Janakpuri", 80}, {"Vasant Kunj", 85}, {"Saket", 90},
	{"Greater Kailash", 95}, {"Nehru Place", 85}, {"Tilak Nagar", 70}, {"Pitampura", 60},
	{"Preet Vihar", 75}, {"Mayur Vihar", 70}, {"Ashok Vihar", 65}, {"Model Town", 80},
	{"Civil Lines", 85}, {"Khan Market", 95}, {"Defence Colony", 90}, {"Laxmi Nagar", 60},
	{"Shahdara", 50}, {"Uttam Nagar", 55}, {"Najafgarh", 45}, {"Narela", 40},
}

var sources = []scored{
	{"School Website", 60}, {"Google Search", 65}, {"Social Media", 70}, {"Friend Referral", 85},
	{"Newspaper Ad", 50}, {"Hoarding/Banner", 45}, {"Educational Fair", 75}, {"Alumni Referral", 90},
	{"Current Parent Referral", 95}, {"Teacher Referral", 88}, {"Brochure", 55}, {"Walk-in", 40},
}

var classes = []scored{
	{"Nursery", 70}, {"LKG", 75}, {"UKG", 80}, {"Class 1", 85}, {"Class 2", 80},
	{"Class 3", 75}, {"Class 4", 70}, {"Class 5", 65}, {"Class 6", 85}, {"Class 7", 80},
	{"Class 8", 75}, {"Class 9", 90}, {"Class 10", 85}, {"Class 11", 95}, {"Class 12", 90},
}

var emailDomains = []string{"yahoo.com", "hotmail.com", "outlook.com"}
