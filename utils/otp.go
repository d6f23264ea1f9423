package utils

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"gharseva/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// GenerateNumericOTP generates a secure random numeric OTP of the given
// number of digits.
func GenerateNumericOTP(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// SecureCompare reports whether two codes match, in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SendSMSMessage delivers an SMS to the given phone number. Actual dispatch
// is out of scope; the outgoing message is logged.
func SendSMSMessage(phoneNumber, message string) error {
	GetLogger().Sugar().Infof("Sending SMS to %s: %s", phoneNumber, message)
	return nil
}

// InitiateRegistrationOTP generates an OTP, stores it in Redis with a TTL
// from config, and sends it via SMS.
func InitiateRegistrationOTP(phoneNumber string) error {
	otp, err := GenerateNumericOTP(6)
	if err != nil {
		return err
	}
	ttl := time.Duration(config.AppConfig.OTPExpiryMinutes) * time.Minute
	otpKey := fmt.Sprintf("otp:register:%s", phoneNumber)

	ctx := context.Background()
	client := GetOTPCacheClient()
	if err := client.Set(ctx, otpKey, otp, ttl).Err(); err != nil {
		GetLogger().Error("Failed to cache registration OTP", zap.Error(err))
		return fmt.Errorf("failed to initiate registration OTP")
	}

	message := fmt.Sprintf("Your GharSeva verification code is %s. It expires in %d minutes.", otp, config.AppConfig.OTPExpiryMinutes)
	if err := SendSMSMessage(phoneNumber, message); err != nil {
		GetLogger().Error("Failed to send OTP via SMS", zap.Error(err))
		return fmt.Errorf("failed to send OTP")
	}
	return nil
}

// VerifyRegistrationOTP retrieves the stored OTP and compares it with the
// provided code. On a match the OTP is deleted so it cannot be replayed.
func VerifyRegistrationOTP(phoneNumber, providedOTP string) error {
	otpKey := fmt.Sprintf("otp:register:%s", phoneNumber)
	ctx := context.Background()
	client := GetOTPCacheClient()

	storedOTP, err := client.Get(ctx, otpKey).Result()
	if err != nil {
		if err == redis.Nil {
			return NewValidation("OTP not found or expired")
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if !SecureCompare(storedOTP, providedOTP) {
		return NewValidation("OTP does not match")
	}

	if err := client.Del(ctx, otpKey).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
