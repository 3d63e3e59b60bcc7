package i18n

import "golang.org/x/text/message"

var enMessages = map[string]string{
	// Header
	"app.title":       "SQL Practice Pad",
	"points.label":    "Points",
	"attempts.label":  "Problems generated today: %d/%d",
	"language.label":  "Language: %s",
	"language.switch": "Switch language",

	// Configuration
	"config.error.title":    "Configuration Error",
	"config.error.message":  "AI provider key not found. Set GEMINI_API_KEY (or API_KEY) to use this application.",
	"config.error.guidance": "Refer to your provider's documentation for instructions on obtaining and setting up an API key.",

	// Difficulty
	"difficulty.label":    "Difficulty:",
	"difficulty.Easy":     "Easy",
	"difficulty.Medium":   "Medium",
	"difficulty.Advanced": "Advanced",

	// Problem generation
	"problem.generate":   "Generate New Problem",
	"problem.generating": "Generating your SQL challenge...",
	"quota.reached":      "You've reached your daily limit of %d free problems.",
	"quota.come_back":    "Daily free limit reached. Come back tomorrow for more!",
	"problem.title":      "SQL Challenge:",
	"problem.table":      "Table:",
	"problem.schema":     "Schema:",
	"problem.sample":     "Sample Data:",
	"problem.empty":      "Press g to generate a problem.",

	// Solution
	"solution.label":       "Your SQL Query:",
	"solution.placeholder": "SELECT * FROM ...",
	"solution.submit":      "Submit Solution",
	"solution.tip":         "Press Enter to submit.",

	// Feedback
	"feedback.correct.title":   "Correct!",
	"feedback.correct.message": "You earned %d points. Well done!",
	"feedback.incorrect":       "Incorrect solution. Take another look at the problem and your query. Remember to check syntax and logic!",
	"feedback.api_error":       "Failed to generate problem. %s",
	"error.prefix":             "Error:",

	// Progress
	"progress.loading":    "Loading your progress...",
	"progress.load_error": "Could not load your progress. Starting fresh or login to sync.",
	"progress.save_error": "Could not save your progress. Changes may not persist. Please ensure you are logged in.",

	// Hints
	"hint.get":                 "Get Hint (%d pts)",
	"hint.getting":             "Getting Hint...",
	"hint.show":                "Show Hint",
	"hint.insufficient_points": "Not enough points to get a hint.",
	"hint.title":               "Hint:",
	"hint.error":               "Could not generate a hint for this problem.",

	// Authentication
	"auth.login.title":                "Login to SQL Practice Pad",
	"auth.register.title":             "Create Account",
	"auth.email":                      "Email Address",
	"auth.password":                   "Password",
	"auth.name":                       "Full Name (Optional)",
	"auth.login":                      "Login",
	"auth.register":                   "Register",
	"auth.logout":                     "Logout",
	"auth.federated":                  "Sign in with Google",
	"auth.or":                         "OR",
	"auth.no_account":                 "Don't have an account?",
	"auth.have_account":               "Already have an account?",
	"auth.sign_up":                    "Sign up",
	"auth.sign_in":                    "Sign in",
	"auth.logging_in":                 "Logging in...",
	"auth.registering":                "Registering...",
	"auth.error.invalid_credentials":  "Invalid email or password.",
	"auth.error.email_exists":         "An account with this email already exists.",
	"auth.error.registration_failed":  "Registration failed. Please try again.",
	"auth.error.federated_failed":     "Google Sign-In failed. Please try again.",
	"auth.error.generic":              "An authentication error occurred. Please try again.",
	"auth.welcome":                    "Welcome, %s!",
	"auth.required":                   "Please log in or register to save your progress and access all features.",
	"auth.required.title":             "Authentication required",
	"auth.checking":                   "Checking authentication status...",

	// Screens
	"welcome.tagline":  "Let's write some SQL!",
	"welcome.continue": "press any key to continue",
	"home.title":       "Home",
	"home.guest":       "Guest",
	"menu.practice":    "PRACTICE",
	"menu.quit":        "QUIT",

	// Key hints
	"key.navigate":     "Navigate",
	"key.select":       "Select",
	"key.quit":         "Quit",
	"key.back":         "Back",
	"key.details":      "Details",
	"key.next_field":   "Next field",
	"key.submit":       "Submit",
	"key.generate":     "New problem",
	"key.edit":         "Edit query",
	"key.stop_editing": "Stop editing",
	"key.hint":         "Hint",

	// History
	"history.title":                   "Practice History",
	"history.empty":                   "No practice activity yet.",
	"history.loading":                 "Loading history...",
	"history.kind.problem_generated":  "Problem generated",
	"history.kind.solution_submitted": "Solution submitted",
	"history.kind.hint_purchased":     "Hint purchased",
	"history.kind.hint_refunded":      "Hint refunded",
}

func init() {
	lang := EN.Tag()
	for key, msg := range enMessages {
		message.SetString(lang, key, msg)
	}
}
