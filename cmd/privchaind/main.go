// Command privchaind is the node's command surface: a thin cobra shell
// over the core packages. It carries no invariants of its own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/privchain/privchain/internal/chain"
	"github.com/privchain/privchain/internal/config"
	"github.com/privchain/privchain/internal/logging"
	"github.com/privchain/privchain/internal/node"
	"github.com/privchain/privchain/internal/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "privchaind",
		Short: "privacy-preserving blockchain node",
	}
	root.PersistentFlags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "TCP address to accept peer connections on")
	root.PersistentFlags().StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "chain snapshot file path")
	root.PersistentFlags().StringVar(&cfg.WalletPath, "wallet", cfg.WalletPath, "wallet file path")

	root.AddCommand(newStartNodeCmd(&cfg))
	root.AddCommand(newWalletCmd(&cfg))
	root.AddCommand(newSendCmd(&cfg))
	root.AddCommand(newMineCmd(&cfg))
	root.AddCommand(newBalanceCmd(&cfg))
	root.AddCommand(newPrintChainCmd(&cfg))
	return root
}

func newStartNodeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "startnode",
		Short: "start listening for peers and serving the chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			n := node.New(*cfg, log)
			return n.Run()
		},
	}
	cmd.Flags().StringVar(&cfg.DialPeer, "peer", "", "seed peer address to dial at startup")
	cmd.Flags().IntVar(&cfg.Difficulty, "difficulty", 0, "leading zero hex characters required of a mined block hash (0 = default)")
	return cmd
}

func newWalletCmd(cfg *config.Config) *cobra.Command {
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "wallet management",
	}
	walletCmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "create a new wallet and write it to the wallet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wallet.New()
			if err != nil {
				return err
			}
			if err := w.Save(cfg.WalletPath); err != nil {
				return err
			}
			fmt.Printf("public key: %s\n", w.PublicKeyHex())
			fmt.Printf("display address: %s\n", w.DisplayAddress())
			return nil
		},
	})
	return walletCmd
}

func newSendCmd(cfg *config.Config) *cobra.Command {
	var to string
	var amount uint64

	cmd := &cobra.Command{
		Use:   "send",
		Short: "sign a transfer and add it to the local snapshot's pending pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wallet.Load(cfg.WalletPath)
			if err != nil {
				return err
			}
			ch, err := chain.Load(cfg.SnapshotPath, logging.New())
			if err != nil {
				return err
			}
			tx, err := chain.NewTransaction(w.PublicKeyHex(), to, amount)
			if err != nil {
				return err
			}
			if err := tx.Sign(w.PrivateKey); err != nil {
				return err
			}
			if err := ch.AddTransaction(tx); err != nil {
				return err
			}
			return ch.Save(cfg.SnapshotPath)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient public key (hex)")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount to send")
	return cmd
}

func newMineCmd(cfg *config.Config) *cobra.Command {
	var miner string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "mine one block against the local snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			ch, err := chain.Load(cfg.SnapshotPath, log)
			if err != nil {
				ch = chain.NewChainWithDifficulty(cfg.Difficulty, log)
			}
			block, err := ch.Mine(miner)
			if err != nil {
				return err
			}
			fmt.Printf("mined block %d with %d transactions\n", block.Index, len(block.Transactions))
			return ch.Save(cfg.SnapshotPath)
		},
	}
	cmd.Flags().StringVar(&miner, "miner", "", "miner public key (hex) to credit the reward to")
	return cmd
}

func newBalanceCmd(cfg *config.Config) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "print the balance of an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := chain.Load(cfg.SnapshotPath, logging.New())
			if err != nil {
				return err
			}
			fmt.Println(ch.GetBalance(address))
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "public key (hex) to look up")
	return cmd
}

func newPrintChainCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "printchain",
		Short: "print every block in the local snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := chain.Load(cfg.SnapshotPath, logging.New())
			if err != nil {
				return err
			}
			for _, b := range ch.Blocks() {
				fmt.Printf("index %d hash %s prev %s txs %d\n", b.Index, b.Hash, b.PreviousHash, len(b.Transactions))
			}
			return nil
		},
	}
}
