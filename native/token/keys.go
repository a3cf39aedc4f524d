package token

var (
	balancePrefix  = []byte("token/balance/")
	supplyPrefix   = []byte("token/supply/")
	lastMintPrefix = []byte("token/lastmint/")
)

func balanceKey(symbol string, account [20]byte) []byte {
	key := make([]byte, 0, len(balancePrefix)+len(symbol)+1+len(account))
	key = append(key, balancePrefix...)
	key = append(key, symbol...)
	key = append(key, '/')
	key = append(key, account[:]...)
	return key
}

func supplyKey(symbol string) []byte {
	key := make([]byte, 0, len(supplyPrefix)+len(symbol))
	key = append(key, supplyPrefix...)
	key = append(key, symbol...)
	return key
}

func lastMintKey(symbol string) []byte {
	key := make([]byte, 0, len(lastMintPrefix)+len(symbol))
	key = append(key, lastMintPrefix...)
	key = append(key, symbol...)
	return key
}
