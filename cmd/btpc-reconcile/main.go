// btpc-reconcile is the operator tool for reconciling the local UTXO store
// against the wallet directory and cleaning up orphaned UTXOs.
package main

func main() {
	execute()
}
