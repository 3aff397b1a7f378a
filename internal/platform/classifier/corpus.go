package classifier

// DefaultCorpus is the hand-labelled training set. Every catalog condition
// has at least two examples, mixing English and Pidgin phrasings.
func DefaultCorpus() []Example {
	return []Example{
		{"I have fever and headache", "malaria"},
		{"My body is hot and I have body pain", "malaria"},
		{"I dey hot and my head dey pain me", "malaria"},
		{"Fever with chills and sweating", "malaria"},
		{"I have high temperature and joint pain", "malaria"},

		{"My belle dey pain and I dey vomit", "typhoid"},
		{"Stomach pain with fever and weakness", "typhoid"},
		{"I have stomach pain and loss of appetite", "typhoid"},
		{"Belle pain with high temperature", "typhoid"},

		{"I dey run belle and dey vomit", "cholera"},
		{"Diarrhea and vomiting with dehydration", "cholera"},
		{"Watery stool and stomach cramps", "cholera"},
		{"Belle run and I dey feel weak", "cholera"},

		{"Fever with sore throat and muscle pain", "lassa fever"},
		{"High temperature with chest pain and vomiting", "lassa fever"},
		{"I dey hot with throat pain and body pain", "lassa fever"},

		{"I have cough and running nose", "common cold"},
		{"I dey cough and cold dey worry me", "common cold"},
		{"Cough with headache and sneezing", "common cold"},
		{"Running nose with sore throat", "common cold"},

		{"Fever with rash and muscle pain", "dengue fever"},
		{"High temperature with joint pain and eye pain", "dengue fever"},

		{"Pain when I urinate and stomach pain", "urinary tract infection"},
		{"I dey piss and e dey pain me", "urinary tract infection"},
		{"Frequent urination with pain", "urinary tract infection"},

		{"Cough with chest pain and fever", "pneumonia"},
		{"I dey cough and my chest dey pain me", "pneumonia"},
		{"Difficulty breathing with cough", "pneumonia"},
	}
}
