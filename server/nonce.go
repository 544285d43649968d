package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	nonceAction = "topic_clusters_admin"
	nonceTick   = 12 * time.Hour
	nonceLen    = 20
)

// nonceMaker signs short-lived request nonces, valid for the current and the previous tick
type nonceMaker struct {
	secret []byte
	now    func() time.Time
}

// newNonceMaker makes a signer, an empty secret is replaced by a random one
func newNonceMaker(secret string) (*nonceMaker, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate nonce secret: %w", err)
		}
	}
	return &nonceMaker{secret: key, now: time.Now}, nil
}

// Make returns the nonce for the given user
func (n *nonceMaker) Make(user string) string {
	return n.sign(user, n.tick())
}

// Verify checks the nonce against the current and the previous tick
func (n *nonceMaker) Verify(user, nonce string) bool {
	if nonce == "" {
		return false
	}
	tick := n.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(nonce), []byte(n.sign(user, t))) {
			return true
		}
	}
	return false
}

func (n *nonceMaker) tick() int64 {
	return n.now().Unix() / int64(nonceTick/time.Second)
}

func (n *nonceMaker) sign(user string, tick int64) string {
	mac := hmac.New(sha256.New, n.secret)
	mac.Write([]byte(nonceAction + "|" + user + "|" + strconv.FormatInt(tick, 10)))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLen]
}

// nonceCheck rejects state-changing admin requests without a valid nonce
func (s *Server) nonceCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := r.Header.Get("X-Nonce")
		if nonce == "" {
			nonce = r.FormValue("nonce")
		}
		if !s.nonces.Verify(s.adminUser, nonce) {
			sendError(w, r, http.StatusForbidden, "invalid nonce")
			return
		}
		next.ServeHTTP(w, r)
	})
}
