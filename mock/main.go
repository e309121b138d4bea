package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	store := newBookingStore()

	http.HandleFunc("/api/search", SearchHandler)
	http.HandleFunc("/api/air-pricing", PricingHandler)
	http.HandleFunc("/api/validate-passengers", ValidatePassengersHandler)
	http.HandleFunc("/api/validate-contact", ValidateContactHandler)
	http.HandleFunc("/api/bookings", store.CreateBookingHandler)
	http.HandleFunc("/api/admin/bookings/pending", store.PendingHandler)
	http.HandleFunc("/api/admin/bookings/", store.AdminActionHandler)
	http.HandleFunc("/api/send-otp", SendOTPHandler)
	http.HandleFunc("/api/verify-otp", VerifyOTPHandler)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Go Mock Server running on port %s...\n", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
